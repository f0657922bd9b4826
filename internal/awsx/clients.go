package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// SNSAPI is the slice of the SNS client this tool uses.
type SNSAPI interface {
	CreateTopic(ctx context.Context, in *sns.CreateTopicInput, opts ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	DeleteTopic(ctx context.Context, in *sns.DeleteTopicInput, opts ...func(*sns.Options)) (*sns.DeleteTopicOutput, error)
	GetTopicAttributes(ctx context.Context, in *sns.GetTopicAttributesInput, opts ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
}

// CloudFormationAPI is the slice of the CloudFormation client this tool uses.
type CloudFormationAPI interface {
	GetTemplate(ctx context.Context, in *cloudformation.GetTemplateInput, opts ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
}

// STSAPI is the slice of the STS client this tool uses.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, opts ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Clients bundles the three service clients for one deploy target.
type Clients struct {
	SNS            SNSAPI
	CloudFormation CloudFormationAPI
	STS            STSAPI
}

// NewClients builds service clients for the given region. If endpoint is
// non-empty it overrides the base endpoint on every client (for localstack
// and similar).
func NewClients(ctx context.Context, region, endpoint string) (*Clients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	c := &Clients{}
	if endpoint != "" {
		c.SNS = sns.NewFromConfig(cfg, func(o *sns.Options) { o.BaseEndpoint = aws.String(endpoint) })
		c.CloudFormation = cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) { o.BaseEndpoint = aws.String(endpoint) })
		c.STS = sts.NewFromConfig(cfg, func(o *sts.Options) { o.BaseEndpoint = aws.String(endpoint) })
		return c, nil
	}
	c.SNS = sns.NewFromConfig(cfg)
	c.CloudFormation = cloudformation.NewFromConfig(cfg)
	c.STS = sts.NewFromConfig(cfg)
	return c, nil
}
