// Package stack reads the previously deployed CloudFormation template and
// extracts the topic subscriptions it carries.
package stack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"

	"github.com/groblegark/snsevents/internal/awsx"
)

const subscriptionType = "AWS::SNS::Subscription"

// Snapshot is the set of topic ARNs subscribed to in a deployed stack.
// It is taken once before a deploy and consulted after.
type Snapshot struct {
	StackName string
	TopicARNs []string
}

type templateResource struct {
	Type       string                     `json:"Type"`
	Properties map[string]json.RawMessage `json:"Properties"`
}

type templateBody struct {
	Resources map[string]templateResource `json:"Resources"`
}

// Take fetches the stack's current template and returns the topic ARNs of
// its subscription resources. A stack that does not exist yet yields an
// empty snapshot, not an error.
func Take(ctx context.Context, cf awsx.CloudFormationAPI, stackName string) (*Snapshot, error) {
	snap := &Snapshot{StackName: stackName}

	out, err := cf.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if stackMissing(err) {
			return snap, nil
		}
		return nil, fmt.Errorf("get template for stack %s: %w", stackName, err)
	}
	if out.TemplateBody == nil || *out.TemplateBody == "" {
		return snap, nil
	}

	var body templateBody
	if err := json.Unmarshal([]byte(*out.TemplateBody), &body); err != nil {
		return nil, fmt.Errorf("parse template for stack %s: %w", stackName, err)
	}

	for _, res := range body.Resources {
		if res.Type != subscriptionType {
			continue
		}
		raw, ok := res.Properties["TopicArn"]
		if !ok {
			continue
		}
		// Only literal ARNs count; Ref / Fn::* intrinsics are objects and
		// refer to topics the stack itself manages.
		var arn string
		if err := json.Unmarshal(raw, &arn); err != nil {
			continue
		}
		if arn != "" {
			snap.TopicARNs = append(snap.TopicARNs, arn)
		}
	}
	sort.Strings(snap.TopicARNs)
	return snap, nil
}

// stackMissing reports whether err is CloudFormation's "stack does not
// exist" validation error.
func stackMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "does not exist")
}
