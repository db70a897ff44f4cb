// Package merge combines the declaration sets of several platforms into one
// cross-platform model.
//
// Declarations are grouped by kind class and name. A group whose members are
// structurally equal becomes one declaration tagged with every platform that
// declares it; otherwise each platform keeps its own variant and the
// divergence is reported as a warning.
package merge

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/logger"
)

type Merger struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Merger {
	return &Merger{log: logger.OrNop(log)}
}

type groupKey struct {
	class cdecl.Class
	name  string
}

type member struct {
	platform    cdecl.Platform
	node        cdecl.Node
	fingerprint uint64
}

// Merge combines one AST per platform.
func (m *Merger) Merge(asts ...*cdecl.AST) (*Model, error) {
	if len(asts) == 0 {
		return nil, errors.New("nothing to merge")
	}

	sorted := slices.Clone(asts)
	for _, a := range sorted {
		if a == nil {
			return nil, errors.AssertionFailedf("nil declaration set")
		}
	}
	slices.SortFunc(sorted, func(a, b *cdecl.AST) int { return cmp.Compare(a.Platform, b.Platform) })

	model := &Model{}
	for i, a := range sorted {
		if i > 0 && sorted[i-1].Platform == a.Platform {
			return nil, errors.Newf("platform %s given twice", a.Platform)
		}
		model.Platforms = append(model.Platforms, a.Platform)
	}

	groups := make(map[groupKey][]member)
	for _, a := range sorted {
		for _, n := range a.Nodes() {
			k := groupKey{n.NodeKind().Class(), n.NodeName()}
			groups[k] = append(groups[k], member{platform: a.Platform, node: n, fingerprint: Fingerprint(n)})
		}
	}

	keys := slices.SortedFunc(maps.Keys(groups), func(a, b groupKey) int {
		return cmp.Or(cmp.Compare(a.name, b.name), cmp.Compare(a.class, b.class))
	})

	var divergent int
	for _, k := range keys {
		if !m.mergeGroup(model, k, groups[k]) {
			divergent++
		}
	}

	m.log.Infow("merged platforms",
		logger.FieldCount, model.Len(),
		"platforms", len(model.Platforms),
		"divergent", divergent)

	return model, nil
}

// mergeGroup adds the declarations of one group and reports whether the
// platforms agreed.
func (m *Merger) mergeGroup(model *Model, k groupKey, members []member) bool {
	platforms := make([]cdecl.Platform, len(members))
	for i, mb := range members {
		platforms[i] = mb.platform
	}

	first := members[0]
	odd := slices.IndexFunc(members, func(mb member) bool { return !equal(first, mb) })
	if odd < 0 {
		prov := make(map[cdecl.Platform]Provenance, len(members))
		for _, mb := range members {
			prov[mb.platform] = provenance(mb.node)
		}
		model.add(first.node, platforms, prov)
		return true
	}

	for _, mb := range members {
		model.add(mb.node, []cdecl.Platform{mb.platform}, map[cdecl.Platform]Provenance{mb.platform: provenance(mb.node)})
	}

	path := FirstDifference(first.node, members[odd].node)
	model.Diagnostics = append(model.Diagnostics, cdecl.Diagnostic{
		Severity:  cdecl.SeverityWarning,
		Message:   fmt.Sprintf("%s %q differs between %s and %s at %s", first.node.NodeKind(), k.name, first.platform, members[odd].platform, path),
		Name:      k.name,
		Platforms: platforms,
	})

	m.log.Debugw("declaration diverges",
		logger.FieldName, k.name,
		"path", path,
		"platforms", strings.Join(platformNames(platforms), ","))
	return false
}

// equal compares fingerprints first and confirms a match field by field, so a
// hash collision cannot merge different declarations.
func equal(a, b member) bool {
	return a.fingerprint == b.fingerprint && FirstDifference(a.node, b.node) == ""
}

func provenance(n cdecl.Node) Provenance {
	return Provenance{Kind: n.NodeKind(), Location: n.NodeLocation()}
}

func platformNames(ps []cdecl.Platform) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
