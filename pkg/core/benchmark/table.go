package benchmark

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// DefaultIndustry is the label carried by the fallback profile when the
// configuration does not name it.
const DefaultIndustry = "default"

// Table is an immutable industry -> Profile mapping with a designated default.
// Never mutate a Table after it has been handed to a Resolver; build a new one
// and Swap it in.
type Table struct {
	profiles map[string]Profile
	def      Profile
}

// NewTable builds a Table. Industry names are matched after NormalizeIndustry,
// so two entries that normalize to the same key are rejected.
func NewTable(def Profile, profiles []Profile) (*Table, error) {
	if strings.TrimSpace(def.Industry) == "" {
		def.Industry = DefaultIndustry
	}

	t := &Table{
		profiles: make(map[string]Profile, len(profiles)),
		def:      def,
	}
	for _, p := range profiles {
		key := NormalizeIndustry(p.Industry)
		if key == "" {
			return nil, fmt.Errorf("benchmark profile with empty industry name")
		}
		if _, dup := t.profiles[key]; dup {
			return nil, fmt.Errorf("duplicate benchmark profile for industry %q", p.Industry)
		}
		t.profiles[key] = p
	}
	return t, nil
}

// Lookup returns the profile for industry and whether it matched a table entry.
// Unknown industries get the default profile with matched=false.
func (t *Table) Lookup(industry string) (Profile, bool) {
	if p, ok := t.profiles[NormalizeIndustry(industry)]; ok {
		return p, true
	}
	return t.def, false
}

// Default returns the fallback profile.
func (t *Table) Default() Profile {
	return t.def
}

// Profiles returns every non-default profile sorted by industry.
func (t *Table) Profiles() []Profile {
	out := make([]Profile, 0, len(t.profiles))
	for _, p := range t.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return NormalizeIndustry(out[i].Industry) < NormalizeIndustry(out[j].Industry)
	})
	return out
}

// Len is the number of industry entries, excluding the default.
func (t *Table) Len() int {
	return len(t.profiles)
}

// NormalizeIndustry lower-cases the name and folds '_', '-' and runs of
// whitespace into single spaces: "Retail_E-Commerce " -> "retail e commerce".
func NormalizeIndustry(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Resolver serves lookups from the current Table. Readers never block and
// always see a complete table: reloads publish a new *Table atomically.
type Resolver struct {
	table atomic.Pointer[Table]
}

// NewResolver returns a Resolver serving t.
func NewResolver(t *Table) *Resolver {
	r := &Resolver{}
	r.table.Store(t)
	return r
}

// Resolve returns the profile for industry, falling back to the default.
func (r *Resolver) Resolve(industry string) Profile {
	p, _ := r.Lookup(industry)
	return p
}

// Lookup is Resolve plus whether the industry matched an entry.
func (r *Resolver) Lookup(industry string) (Profile, bool) {
	return r.table.Load().Lookup(industry)
}

// Swap publishes t and returns the table it replaced.
func (r *Resolver) Swap(t *Table) *Table {
	return r.table.Swap(t)
}

// Table returns the table currently being served.
func (r *Resolver) Table() *Table {
	return r.table.Load()
}

// Industries lists the configured industry names, sorted.
func (r *Resolver) Industries() []string {
	profiles := r.table.Load().Profiles()
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Industry)
	}
	return names
}
