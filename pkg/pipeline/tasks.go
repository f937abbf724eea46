package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Built-in task names.
const (
	TaskOwnership     = "ownership"
	TaskGateways      = "gateways"
	TaskLanguages     = "languages"
	TaskDocumentation = "documentation"
)

// Property paths written by the built-in tasks.
var (
	PathDomain     = props.Path{"details", "domain"}
	PathGateways   = props.Path{"details", "gateways"}
	PathLanguages  = props.Path{"details", "languages"}
	PathFrameworks = props.Path{"details", "frameworks"}
	PathDocumented = props.Path{"details", "documented"}
)

// DefaultTasks lists the built-in tasks in their default order.
var DefaultTasks = []string{TaskOwnership, TaskGateways, TaskLanguages, TaskDocumentation}

var builtin = map[string]func() Task{
	TaskOwnership:     func() Task { return ownershipTask{} },
	TaskGateways:      func() Task { return gatewaysTask{} },
	TaskLanguages:     func() Task { return languagesTask{} },
	TaskDocumentation: func() Task { return documentationTask{} },
}

// Resolve returns the built-in tasks with the given names, in order.
// Unknown names fail with INVALID_CONFIG.
func Resolve(names []string) ([]Task, error) {
	tasks := make([]Task, 0, len(names))
	for _, name := range names {
		newTask, ok := builtin[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"unknown task %q (must be one of: %s)", name, strings.Join(TaskNames(), ", "))
		}
		tasks = append(tasks, newTask())
	}
	return tasks, nil
}

// TaskNames returns the names of all built-in tasks, sorted.
func TaskNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// selectComponents returns the ids of all component vertices.
func selectComponents(g *traversal.Source) ([]string, error) {
	vals, err := g.V().HasType(inventory.TypeComponent).ID().ToValues()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(vals))
	for i, v := range vals {
		ids[i], _ = v.AsString()
	}
	return ids, nil
}

// mergeNames appends names to the list at path on v, skipping names already
// present, and writes the list back through the store.
func mergeNames(s *store.Store, v *store.Vertex, path props.Path, names []value.Value) error {
	list := value.NewList()
	if cur, ok := v.Props.Read(path); ok {
		existing, ok := cur.AsList()
		if !ok {
			return errors.New(errors.ErrCodeTypeMismatch, "%s is a %s, want a list", path, cur.Kind())
		}
		list = existing.Clone()
	}
	list.AppendDistinct(names...)
	return s.SetProperty(v.ID, path, value.FromList(list))
}

// ownershipTask records the owning domain's name on each component.
type ownershipTask struct{}

func (ownershipTask) Name() string { return TaskOwnership }

func (ownershipTask) Select(g *traversal.Source) ([]string, error) { return selectComponents(g) }

func (ownershipTask) Apply(_ context.Context, s *store.Store, v *store.Vertex) error {
	names, err := traversal.New(s).V(v.ID).In(inventory.EdgeOwns).HasType(inventory.TypeDomain).Name().Dedup().ToValues()
	if err != nil {
		return err
	}
	switch len(names) {
	case 0:
		return errors.New(errors.ErrCodeNotFound, "component has no owning domain")
	case 1:
		return s.SetProperty(v.ID, PathDomain, names[0])
	}
	return errors.New(errors.ErrCodeInvalidEdge, "component is owned by %d domains", len(names))
}

// gatewaysTask collects the names of the gateways exposing each component
// into details.gateways.
type gatewaysTask struct{}

func (gatewaysTask) Name() string { return TaskGateways }

func (gatewaysTask) Select(g *traversal.Source) ([]string, error) {
	vals, err := g.V().HasType(inventory.TypeComponent).
		Where(traversal.Anon().Out(inventory.EdgeGateway)).
		ID().ToValues()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(vals))
	for i, v := range vals {
		ids[i], _ = v.AsString()
	}
	return ids, nil
}

func (gatewaysTask) Apply(_ context.Context, s *store.Store, v *store.Vertex) error {
	names, err := traversal.New(s).V(v.ID).Out(inventory.EdgeGateway).Name().Dedup().ToValues()
	if err != nil {
		return err
	}
	return mergeNames(s, v, PathGateways, names)
}

// languagesTask collects language and framework names into
// details.languages and details.frameworks.
type languagesTask struct{}

func (languagesTask) Name() string { return TaskLanguages }

func (languagesTask) Select(g *traversal.Source) ([]string, error) { return selectComponents(g) }

func (languagesTask) Apply(_ context.Context, s *store.Store, v *store.Vertex) error {
	g := traversal.New(s)
	langs, err := g.V(v.ID).Out(inventory.EdgeUses).HasType(inventory.TypeLanguage).Name().ToValues()
	if err != nil {
		return err
	}
	frameworks, err := g.V(v.ID).Out(inventory.EdgeUses).HasType(inventory.TypeFramework).Name().ToValues()
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		return errors.New(errors.ErrCodeNotFound, "component declares no language")
	}
	if err := mergeNames(s, v, PathLanguages, langs); err != nil {
		return err
	}
	if len(frameworks) == 0 {
		return nil
	}
	return mergeNames(s, v, PathFrameworks, frameworks)
}

// documentationTask marks every component with details.documented and
// records a diagnostic for components without a documentation link.
type documentationTask struct{}

func (documentationTask) Name() string { return TaskDocumentation }

func (documentationTask) Run(_ context.Context, s *store.Store, diags *Diagnostics) error {
	g := traversal.New(s)
	link := traversal.Anon().HasKey(inventory.PathDocumentation.String())

	if err := g.V().HasType(inventory.TypeComponent).Where(link).
		Property(PathDocumented.String(), value.Bool(true)).Iterate(); err != nil {
		return err
	}
	missing, err := g.V().HasType(inventory.TypeComponent).Not(link).
		Property(PathDocumented.String(), value.Bool(false)).ToVertices()
	if err != nil {
		return err
	}
	for _, v := range missing {
		diags.Record(TaskDocumentation, v.ID, errors.New(errors.ErrCodeNotFound, "no documentation link"))
	}
	return nil
}
