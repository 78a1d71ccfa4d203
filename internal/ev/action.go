package ev

import (
	"fmt"
	"strings"
)

// Category names a resource category that packs feed, e.g. "Focus".
type Category string

// AttributeID identifies a leveled attribute.
type AttributeID string

// Action is one candidate spend. The set of implementations is closed:
// PurchasePack, AdvanceAttribute and AcquireNewAttribute.
type Action interface {
	fmt.Stringer
	isAction()
}

// PurchasePack buys one pack of consumables for a category.
type PurchasePack struct {
	Category Category
}

// AdvanceAttribute raises an owned attribute by one level.
type AdvanceAttribute struct {
	Attribute AttributeID
}

// AcquireNewAttribute buys a brand new attribute at level 1.
type AcquireNewAttribute struct{}

func (PurchasePack) isAction()        {}
func (AdvanceAttribute) isAction()    {}
func (AcquireNewAttribute) isAction() {}

// textual kinds used by String/ParseAction
const (
	kindPack    = "pack"
	kindAdvance = "advance"
	kindAcquire = "acquire"
)

func (a PurchasePack) String() string      { return kindPack + ":" + string(a.Category) }
func (a AdvanceAttribute) String() string  { return kindAdvance + ":" + string(a.Attribute) }
func (AcquireNewAttribute) String() string { return kindAcquire }

// ParseAction reads the textual form produced by Action.String:
// "pack:<category>", "advance:<attribute>" or "acquire".
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	arg = strings.TrimSpace(arg)
	switch kind {
	case kindPack:
		if arg == "" {
			return nil, fmt.Errorf("parse action %q: missing category", s)
		}
		return PurchasePack{Category: Category(arg)}, nil
	case kindAdvance:
		if arg == "" {
			return nil, fmt.Errorf("parse action %q: missing attribute", s)
		}
		return AdvanceAttribute{Attribute: AttributeID(arg)}, nil
	case kindAcquire:
		if arg != "" {
			return nil, fmt.Errorf("parse action %q: acquire takes no argument", s)
		}
		return AcquireNewAttribute{}, nil
	}
	return nil, fmt.Errorf("parse action %q: %w", s, ErrUnknownAction)
}
