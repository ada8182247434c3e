package status

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Stage is a funnel stage. Stages are independent membership questions: a
// status may belong to several sets or to none.
type Stage string

const (
	StageNew          Stage = "new"
	StageInterested   Stage = "interested"
	StageWaitingEval  Stage = "waiting_eval"
	StageOfferSent    Stage = "offer_sent"
	StageSuccess      Stage = "success"
	StageNegativeLost Stage = "negative_lost"
)

// Stages lists every funnel stage in display order.
var Stages = []Stage{StageNew, StageInterested, StageWaitingEval, StageOfferSent, StageSuccess, StageNegativeLost}

var ErrUnknownStage = errors.New("unknown funnel stage")

func ParseStage(s string) (Stage, error) {
	n := Stage(Normalize(s))
	for _, st := range Stages {
		if st == n {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
}

// Taxonomy holds the raw spellings of every stage set. It is what the YAML
// override file decodes into.
type Taxonomy struct {
	Interested   []string `yaml:"interested"`
	WaitingEval  []string `yaml:"waiting_eval"`
	OfferSent    []string `yaml:"offer_sent"`
	Success      []string `yaml:"success"`
	NegativeLost []string `yaml:"negative_lost"`
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Interested: []string{
			"interested", "interested - follow up", "follow up", "call back",
			"waiting photos", "photos received",
		},
		WaitingEval: []string{
			"waiting evaluation", "waiting for evaluation", "under evaluation",
			"sent to doctor", "waiting doctor evaluation",
		},
		OfferSent: []string{
			"offer sent", "price sent", "price given", "offer given", "waiting decision",
		},
		Success:      append([]string(nil), closedSuccess...),
		NegativeLost: append([]string(nil), negativeLost...),
	}
}

// LoadTaxonomy reads a YAML taxonomy file. Keys missing from the file keep
// their default spellings.
func LoadTaxonomy(path string) (Taxonomy, error) {
	t := DefaultTaxonomy()
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read taxonomy: %w", err)
	}
	var over Taxonomy
	if err := yaml.Unmarshal(b, &over); err != nil {
		return t, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if len(over.Interested) > 0 {
		t.Interested = over.Interested
	}
	if len(over.WaitingEval) > 0 {
		t.WaitingEval = over.WaitingEval
	}
	if len(over.OfferSent) > 0 {
		t.OfferSent = over.OfferSent
	}
	if len(over.Success) > 0 {
		t.Success = over.Success
	}
	if len(over.NegativeLost) > 0 {
		t.NegativeLost = over.NegativeLost
	}
	return t, nil
}

// Funnel answers stage membership questions for normalized statuses.
type Funnel struct {
	sets map[Stage]map[string]struct{}
}

func NewFunnel(t Taxonomy) *Funnel {
	return &Funnel{sets: map[Stage]map[string]struct{}{
		StageInterested:   toSet(t.Interested),
		StageWaitingEval:  toSet(t.WaitingEval),
		StageOfferSent:    toSet(t.OfferSent),
		StageSuccess:      toSet(t.Success),
		StageNegativeLost: toSet(t.NegativeLost),
	}}
}

// DefaultFunnel is built from DefaultTaxonomy.
var DefaultFunnel = NewFunnel(DefaultTaxonomy())

// Member reports whether a raw status belongs to stage. Every status is a
// member of StageNew, the top of the funnel.
func (f *Funnel) Member(stage Stage, raw string) bool {
	if stage == StageNew {
		return true
	}
	set, ok := f.sets[stage]
	if !ok {
		return false
	}
	_, ok = set[Normalize(raw)]
	return ok
}

// Spellings returns the normalized members of a stage, sorted.
func (f *Funnel) Spellings(stage Stage) []string {
	out := make([]string, 0, len(f.sets[stage]))
	for s := range f.sets[stage] {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = Normalize(s)
		if s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
