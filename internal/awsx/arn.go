// Package awsx wraps the AWS surfaces this tool touches: SNS topics,
// CloudFormation templates, and STS caller identity.
package awsx

import (
	"fmt"
	"strings"
)

// TopicARN builds the fully qualified topic identifier.
// The format is fixed: arn:<partition>:sns:<region>:<account>:<name>.
func TopicARN(partition, region, account, name string) string {
	return fmt.Sprintf("arn:%s:sns:%s:%s:%s", partition, region, account, name)
}

// TopicNameFromARN returns the topic name component of an SNS topic ARN,
// or "" if the string is not one.
func TopicNameFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "sns" {
		return ""
	}
	return parts[5]
}
