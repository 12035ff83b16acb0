package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/metrics"
	"github.com/imamik/crdbcerts/internal/provisioning"
	"github.com/imamik/crdbcerts/internal/provisioning/ca"
	"github.com/imamik/crdbcerts/internal/provisioning/issue"
	"github.com/imamik/crdbcerts/internal/provisioning/manifest"
	"github.com/imamik/crdbcerts/internal/provisioning/publish"
	"github.com/imamik/crdbcerts/internal/util/naming"
)

// ErrNoObjectStore is returned when publishing is configured but no object
// store was provided.
var ErrNoObjectStore = errors.New("publish is configured but no object store was provided")

// Orchestrator runs one provisioning pass over a configuration.
type Orchestrator struct {
	config   *config.Config
	tool     certtool.Tool
	log      logr.Logger
	observer provisioning.Observer
	metrics  *metrics.Recorder
	store    publish.ObjectStore
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger phases report through.
func WithLogger(log logr.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithObserver replaces the logger-backed observer.
func WithObserver(observer provisioning.Observer) Option {
	return func(o *Orchestrator) { o.observer = observer }
}

// WithMetrics records phase and run metrics into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithObjectStore sets the store CA certificates are published to.
func WithObjectStore(store publish.ObjectStore) Option {
	return func(o *Orchestrator) { o.store = store }
}

// New creates an Orchestrator for cfg that issues certificates with tool.
func New(cfg *config.Config, tool certtool.Tool, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config: cfg,
		tool:   tool,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result summarizes a successful run.
type Result struct {
	ArtifactsDir string                       `json:"artifactsDir"`
	NodeAddrs    []string                     `json:"nodeAddrs"`
	Phases       []string                     `json:"phases"`
	Clusters     []*provisioning.ClusterState `json:"clusters"`
	Duration     time.Duration                `json:"duration"`
}

// Phases returns the phases a run of the current configuration executes.
func (o *Orchestrator) Phases() []provisioning.Phase {
	phases := []provisioning.Phase{ca.NewProvisioner()}
	if o.config.BundleJoinCAs {
		phases = append(phases, ca.NewBundler())
	}
	phases = append(phases, issue.NewIssuer())
	if o.config.Manifests.Secrets {
		phases = append(phases, manifest.NewRenderer())
	}
	if o.config.Publish != nil {
		phases = append(phases, publish.NewPublisher(o.store))
	}
	return phases
}

// Run executes the provisioning workflow. Configuration problems are
// reported as *config.ConfigurationError before the tool is invoked; a
// concurrent run on the same artifacts root yields a *fsutil.FilesystemError
// wrapping fsutil.ErrInUse.
func (o *Orchestrator) Run(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	if o.metrics != nil {
		defer func() {
			o.metrics.ObserveRun(len(o.config.Create), len(o.config.Join), time.Since(start), err)
		}()
	}

	if err := o.preflight(); err != nil {
		return nil, err
	}

	root := o.config.ArtifactsDir
	if err := fsutil.EnsureDir(root); err != nil {
		return nil, err
	}
	lock, err := fsutil.Lock(root)
	if err != nil {
		return nil, err
	}
	if lock.Reclaimed != "" {
		o.log.Info("replaced lock of a run that no longer exists", "lock", lock.Path(), "previous", lock.Reclaimed)
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	pctx := provisioning.NewContext(logr.NewContext(ctx, o.log), o.config, o.tool)
	if o.observer != nil {
		pctx.Observer = o.observer
	}
	if o.metrics != nil {
		pctx.Metrics = o.metrics
	}
	pctx.State.NodeAddrs = o.config.AllNodeAddrs()
	o.log.Info("provisioning clusters", "create", o.config.Namespaces(), "join", len(o.config.Join), "artifactsDir", root)

	phases := o.Phases()
	if err := provisioning.RunPhases(pctx, phases); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(phases))
	for _, p := range phases {
		names = append(names, p.Name())
	}
	return &Result{
		ArtifactsDir: root,
		NodeAddrs:    pctx.State.NodeAddrs,
		Phases:       names,
		Clusters:     pctx.State.Ordered(),
		Duration:     time.Since(start),
	}, nil
}

func (o *Orchestrator) preflight() error {
	if o.config == nil {
		return &config.ConfigurationError{Err: errors.New("no configuration given")}
	}
	if err := o.config.Validate(); err != nil {
		return err
	}
	if o.config.BundleJoinCAs {
		if err := o.config.CheckFiles(); err != nil {
			return err
		}
	}
	if o.tool == nil {
		return &config.ConfigurationError{Err: errors.New("no certificate tool given")}
	}
	if o.config.Publish != nil && o.store == nil {
		return &config.ConfigurationError{Err: ErrNoObjectStore}
	}
	return nil
}

// Plan is the dry-run view of a configuration: the SAN list every created
// cluster's node certificate would carry.
type Plan struct {
	Namespace string   `json:"namespace"`
	Directory string   `json:"directory"`
	SANs      []string `json:"sans"`
}

// PlanSANs computes the node certificate SAN lists without touching the
// filesystem or invoking the tool.
func PlanSANs(cfg *config.Config) ([]Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	addrs := cfg.AllNodeAddrs()
	plans := make([]Plan, 0, len(cfg.Create))
	for _, cs := range cfg.Create {
		plans = append(plans, Plan{
			Namespace: cs.Namespace,
			Directory: layout.Resolve(cfg.ArtifactsDir, cs.Namespace).Directory,
			SANs:      naming.NodeSANs(cfg.ServiceName, cs.Namespace, addrs),
		})
	}
	return plans, nil
}

// String implements fmt.Stringer.
func (r *Result) String() string {
	return fmt.Sprintf("%d cluster(s) provisioned under %s in %v",
		len(r.Clusters), r.ArtifactsDir, r.Duration.Round(time.Millisecond))
}
