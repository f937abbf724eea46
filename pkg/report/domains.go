package report

import (
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

// DomainReport lists the components a domain owns.
type DomainReport struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Components []ComponentReport `json:"components"`
}

// ComponentReport describes one component.
type ComponentReport struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Repository string   `json:"repository,omitempty"`
	Gateways   []string `json:"gateways"`
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Documented bool     `json:"documented"`
}

// Domains builds one report per domain, in store order.
func Domains(s *store.Store) ([]DomainReport, error) {
	g := traversal.New(s)
	rows, err := g.V().HasType(inventory.TypeDomain).As("domain").
		Local(traversal.Anon().Out(inventory.EdgeOwns).HasType(inventory.TypeComponent).Fold()).As("components").
		Select("domain", "components").
		ToList()
	if err != nil {
		return nil, err
	}

	out := make([]DomainReport, 0, len(rows))
	for _, row := range rows {
		rec, _ := row.Record()
		d, _ := rec.Get("domain")
		cs, _ := rec.Get("components")
		dv, _ := d.Vertex()
		items, _ := cs.List()

		dr := DomainReport{ID: dv.ID, Name: dv.Name(), Components: make([]ComponentReport, 0, len(items))}
		for _, item := range items {
			cv, ok := item.Vertex()
			if !ok {
				return nil, errors.New(errors.ErrCodeInternal, "domain %s: component list holds %s", dv.ID, item)
			}
			cr, err := component(g, cv)
			if err != nil {
				return nil, err
			}
			dr.Components = append(dr.Components, cr)
		}
		out = append(out, dr)
	}
	return out, nil
}

func component(g *traversal.Source, v *store.Vertex) (ComponentReport, error) {
	cr := ComponentReport{ID: v.ID, Name: v.Name()}
	cr.Repository, _ = v.Props.ReadString(inventory.PathRepository)
	_, cr.Documented = v.Props.Read(inventory.PathDocumentation)

	var err error
	if cr.Gateways, err = names(g.V(v.ID).Out(inventory.EdgeGateway)); err != nil {
		return cr, err
	}
	if cr.Languages, err = names(g.V(v.ID).Out(inventory.EdgeUses).HasType(inventory.TypeLanguage)); err != nil {
		return cr, err
	}
	if cr.Frameworks, err = names(g.V(v.ID).Out(inventory.EdgeUses).HasType(inventory.TypeFramework)); err != nil {
		return cr, err
	}
	return cr, nil
}

func names(t *traversal.Traversal) ([]string, error) {
	vals, err := t.Name().Dedup().ToValues()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out, nil
}
