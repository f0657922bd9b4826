// Package lifecycle sequences the three deploy hook phases over one
// service configuration.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/groblegark/snsevents/internal/awsx"
	"github.com/groblegark/snsevents/internal/events"
	"github.com/groblegark/snsevents/internal/idgen"
	"github.com/groblegark/snsevents/internal/model"
	"github.com/groblegark/snsevents/internal/reconcile"
	"github.com/groblegark/snsevents/internal/scan"
	"github.com/groblegark/snsevents/internal/stack"
	"github.com/groblegark/snsevents/internal/vars"
)

// Phase names, in hook order.
const (
	PhaseBeforePackage = "before-package"
	PhaseBeforeDeploy  = "before-deploy"
	PhaseAfterDeploy   = "after-deploy"
)

type phase int

const (
	phaseNew phase = iota
	phasePackaged
	phaseSnapshotted
	phaseDone
	phaseFailed
)

// Session carries all state for one deploy invocation: the configuration
// tree, the memoized account id, the topics referenced by the config, and
// the pre-deploy snapshot. Sessions are not safe for concurrent use; the
// three phases are strictly ordered and a failed phase aborts the rest of
// the invocation.
type Session struct {
	svc       *model.Service
	clients   *awsx.Clients
	account   *awsx.AccountResolver
	publisher events.Publisher
	logger    *slog.Logger
	chain     *vars.Chain
	topicsVar *vars.TopicResolver

	deployID string
	state    phase
	topics   []string
	snapshot *stack.Snapshot
}

// NewSession creates a session for one deploy of the given service.
func NewSession(svc *model.Service, clients *awsx.Clients, pub events.Publisher, logger *slog.Logger) (*Session, error) {
	deployID, err := idgen.Generate()
	if err != nil {
		return nil, err
	}
	s := &Session{
		svc:       svc,
		clients:   clients,
		account:   awsx.NewAccountResolver(clients.STS),
		publisher: pub,
		logger:    logger.With("deploy", deployID, "stack", svc.StackName()),
		deployID:  deployID,
	}
	s.topicsVar = vars.NewTopicResolver(s.arnFor)
	s.chain = vars.NewChain(s.topicsVar)
	return s, nil
}

// RegisterResolver adds a variable resolver to the session's chain, e.g.
// for host-framework namespaces the caller wants expanded too.
func (s *Session) RegisterResolver(r vars.Resolver) { s.chain.Register(r) }

// DeployID returns the invocation's correlation id.
func (s *Session) DeployID() string { return s.deployID }

// Topics returns the creation set accumulated so far: topic names from
// custom events plus names referenced through variables. Duplicates are
// kept; the create call is idempotent.
func (s *Session) Topics() []string { return s.topics }

// Snapshot returns the pre-deploy snapshot, or nil before BeforeDeploy.
func (s *Session) Snapshot() *stack.Snapshot { return s.snapshot }

// arnFor computes the ARN for a topic in the deploy's region and account.
// It must only be called after the account id has resolved.
func (s *Session) arnFor(topic string) string {
	account, _ := s.account.Resolve(context.Background())
	return awsx.TopicARN(s.svc.Provider.Partition, s.svc.Provider.Region, account, topic)
}

// BeforePackage resolves the account id, expands variable references, and
// rewrites custom topic events into native form. Runs before packaging so
// the template only ever sees native events.
func (s *Session) BeforePackage(ctx context.Context) error {
	if err := s.enter(phaseNew, PhaseBeforePackage); err != nil {
		return err
	}

	// Resolve up front so arnFor never races the packaging walk.
	if _, err := s.account.Resolve(ctx); err != nil {
		return s.fail(PhaseBeforePackage, err)
	}

	if err := s.chain.ExpandService(s.svc); err != nil {
		return s.fail(PhaseBeforePackage, fmt.Errorf("expand variables: %w", err))
	}
	rewritten := scan.RewriteTopicEvents(s.svc, s.arnFor)
	s.topics = append(rewritten, s.topicsVar.Topics()...)

	s.logger.Info("custom events rewritten", "events", len(rewritten), "topics", len(s.topics))
	s.state = phasePackaged
	return s.publishPhase(ctx, PhaseBeforePackage)
}

// BeforeDeploy snapshots the topics subscribed in the currently deployed
// stack, before the new template replaces it. A missing stack yields an
// empty snapshot.
func (s *Session) BeforeDeploy(ctx context.Context) error {
	if err := s.enter(phasePackaged, PhaseBeforeDeploy); err != nil {
		return err
	}

	snap, err := stack.Take(ctx, s.clients.CloudFormation, s.svc.StackName())
	if err != nil {
		return s.fail(PhaseBeforeDeploy, err)
	}
	s.snapshot = snap

	s.logger.Info("stack snapshot taken", "subscribed_topics", len(snap.TopicARNs))
	s.state = phaseSnapshotted
	return s.publishPhase(ctx, PhaseBeforeDeploy)
}

// AfterDeploy creates every referenced topic, then deletes snapshot topics
// that no longer have any subscriptions.
func (s *Session) AfterDeploy(ctx context.Context) error {
	if err := s.enter(phaseSnapshotted, PhaseAfterDeploy); err != nil {
		return err
	}

	r := reconcile.New(s.clients.SNS, s.publisher, s.logger, s.deployID)
	if err := r.CreateTopics(ctx, s.topics); err != nil {
		return s.fail(PhaseAfterDeploy, err)
	}
	if err := r.CleanupOrphans(ctx, s.snapshot.TopicARNs); err != nil {
		return s.fail(PhaseAfterDeploy, err)
	}

	s.state = phaseDone
	return s.publishPhase(ctx, PhaseAfterDeploy)
}

func (s *Session) enter(want phase, name string) error {
	if s.state == phaseFailed {
		return fmt.Errorf("%s: deploy already aborted", name)
	}
	if s.state != want {
		return fmt.Errorf("%s: called out of order", name)
	}
	return nil
}

func (s *Session) fail(name string, err error) error {
	s.state = phaseFailed
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Session) publishPhase(ctx context.Context, name string) error {
	err := s.publisher.Publish(ctx, events.TopicDeployPhase, events.DeployPhase{
		DeployID: s.deployID,
		Stack:    s.svc.StackName(),
		Phase:    name,
		Status:   "completed",
	})
	if err != nil {
		s.logger.Warn("publish phase event", "phase", name, "err", err)
	}
	return nil
}
