// Package reconcile creates the topics a deploy references and cleans up
// topics the previous deploy left behind.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/groblegark/snsevents/internal/awsx"
	"github.com/groblegark/snsevents/internal/events"
)

// Attribute names returned by GetTopicAttributes.
const (
	attrPending   = "SubscriptionsPending"
	attrConfirmed = "SubscriptionsConfirmed"
)

// Reconciler issues the create and cleanup calls for one deploy.
type Reconciler struct {
	sns       awsx.SNSAPI
	publisher events.Publisher
	logger    *slog.Logger
	deployID  string
}

// New creates a reconciler. The publisher may be a NoopPublisher.
func New(client awsx.SNSAPI, pub events.Publisher, logger *slog.Logger, deployID string) *Reconciler {
	return &Reconciler{sns: client, publisher: pub, logger: logger, deployID: deployID}
}

// CreateTopics creates every named topic concurrently and waits for all
// calls to settle. Duplicate names are passed through as-is; CreateTopic
// is idempotent at the API level. Failures are joined into one error.
func (r *Reconciler) CreateTopics(ctx context.Context, names []string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			out, err := r.sns.CreateTopic(ctx, &sns.CreateTopicInput{Name: aws.String(name)})
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("create topic %s: %w", name, err))
				mu.Unlock()
				return
			}
			arn := aws.ToString(out.TopicArn)
			r.logger.Info("topic created", "topic", name, "arn", arn)
			if err := r.publisher.Publish(ctx, events.TopicTopicCreated, events.TopicCreated{
				DeployID: r.deployID, Topic: name, ARN: arn,
			}); err != nil {
				r.logger.Warn("publish topic created event", "topic", name, "err", err)
			}
		}(name)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// CleanupOrphans deletes every candidate topic that has zero pending and
// zero confirmed subscriptions at the time of the check. Candidates whose
// attributes cannot be read, or that still have subscriptions, are skipped
// without error. Deletes run concurrently; the call returns once all have
// settled, joining any delete failures.
func (r *Reconciler) CleanupOrphans(ctx context.Context, candidateARNs []string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, arn := range candidateARNs {
		wg.Add(1)
		go func(arn string) {
			defer wg.Done()
			if err := r.cleanupOne(ctx, arn); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(arn)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (r *Reconciler) cleanupOne(ctx context.Context, arn string) error {
	out, err := r.sns.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
		TopicArn: aws.String(arn),
	})
	if err != nil {
		// Absence of evidence is not evidence of safety to delete.
		r.logger.Warn("topic attributes unavailable, keeping topic", "arn", arn, "err", err)
		r.publishSkip(ctx, arn, "attributes unavailable")
		return nil
	}

	pending := out.Attributes[attrPending]
	confirmed := out.Attributes[attrConfirmed]
	if pending != "0" || confirmed != "0" {
		r.logger.Info("topic still subscribed, keeping",
			"arn", arn, "pending", pending, "confirmed", confirmed)
		r.publishSkip(ctx, arn, "still subscribed")
		return nil
	}

	if _, err := r.sns.DeleteTopic(ctx, &sns.DeleteTopicInput{TopicArn: aws.String(arn)}); err != nil {
		return fmt.Errorf("delete topic %s: %w", arn, err)
	}
	r.logger.Info("orphaned topic deleted", "arn", arn)
	if err := r.publisher.Publish(ctx, events.TopicTopicDeleted, events.TopicDeleted{
		DeployID: r.deployID, ARN: arn,
	}); err != nil {
		r.logger.Warn("publish topic deleted event", "arn", arn, "err", err)
	}
	return nil
}

func (r *Reconciler) publishSkip(ctx context.Context, arn, reason string) {
	if err := r.publisher.Publish(ctx, events.TopicTopicSkipped, events.TopicSkipped{
		DeployID: r.deployID, ARN: arn, Reason: reason,
	}); err != nil {
		r.logger.Warn("publish topic skipped event", "arn", arn, "err", err)
	}
}
