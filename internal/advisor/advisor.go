// Package advisor serves rankings from the current tables and swaps in new
// tables when their files change.
package advisor

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/xtding233/upgrade-ev/internal/ev"
	"github.com/xtding233/upgrade-ev/internal/tables"
)

// ErrBadRequest marks input that could not be decoded into an action or a
// snapshot, as opposed to an action that merely scores 0.
var ErrBadRequest = errors.New("bad request")

type Advisor struct {
	loader  *tables.Loader
	profile string
	cur     atomic.Pointer[ev.Evaluator]
}

// New loads the profile's tables; it fails if they do not validate.
func New(loader *tables.Loader, profile string) (*Advisor, error) {
	e, err := tables.LoadEvaluator(loader, profile)
	if err != nil {
		return nil, err
	}
	a := &Advisor{loader: loader, profile: profile}
	a.cur.Store(e)
	return a, nil
}

// NewStatic wraps a fixed evaluator; Reload is a no-op.
func NewStatic(e *ev.Evaluator) *Advisor {
	a := &Advisor{}
	a.cur.Store(e)
	return a
}

// Files lists the table files worth watching.
func (a *Advisor) Files() []string {
	if a.loader == nil {
		return nil
	}
	return a.loader.Files(a.profile)
}

// Reload re-reads the tables. On error the previous tables stay active.
func (a *Advisor) Reload() error {
	if a.loader == nil {
		return nil
	}
	a.loader.Invalidate()
	e, err := tables.LoadEvaluator(a.loader, a.profile)
	if err != nil {
		log.Printf("reload tables for profile %q: %v (keeping previous tables)", a.profile, err)
		return err
	}
	a.cur.Store(e)
	log.Printf("reloaded tables for profile %q", a.profile)
	return nil
}

func (a *Advisor) Evaluator() *ev.Evaluator { return a.cur.Load() }

// Evaluate scores one action. A non-nil error means the request itself was
// malformed; an action that cannot be taken comes back with Ratio 0 and a
// Reason.
func (a *Advisor) Evaluate(action string, doc SnapshotDoc) (ScoreDoc, error) {
	act, err := ev.ParseAction(action)
	if err != nil {
		return ScoreDoc{}, errors.Join(ErrBadRequest, err)
	}
	s, err := doc.ToSnapshot()
	if err != nil {
		return ScoreDoc{}, errors.Join(ErrBadRequest, err)
	}
	sc, err := a.Evaluator().Explain(act, s)
	if err != nil {
		sc.Ratio = 0
		sc.Err = err
	}
	return toScoreDoc(sc), nil
}

// Rank scores the given actions, or every candidate when actions is empty,
// best first.
func (a *Advisor) Rank(doc SnapshotDoc, actions []string) ([]ScoreDoc, error) {
	s, err := doc.ToSnapshot()
	if err != nil {
		return nil, errors.Join(ErrBadRequest, err)
	}
	e := a.Evaluator()

	var acts []ev.Action
	if len(actions) == 0 {
		acts = ev.Candidates(s, e.Tables())
	} else {
		for _, str := range actions {
			act, err := ev.ParseAction(str)
			if err != nil {
				return nil, errors.Join(ErrBadRequest, err)
			}
			acts = append(acts, act)
		}
	}

	ranked := e.Rank(acts, s)
	out := make([]ScoreDoc, len(ranked))
	for i, sc := range ranked {
		out[i] = toScoreDoc(sc)
	}
	return out, nil
}
