package usecase

import "pix-checkout/internal/domain"

type Step string

const (
	StepIdentification Step = "identification"
	StepPaymentMethod  Step = "payment_method"
	StepConfirm        Step = "confirm"
)

// Flow is the ordered list of steps a checkout walks through. Both variants
// share the same step values and differ only in length and labels.
type Flow struct {
	Steps  []Step
	Labels []string
}

var (
	oneCheckoutFlow = Flow{
		Steps:  []Step{StepIdentification, StepPaymentMethod, StepConfirm},
		Labels: []string{"identification", "payment_method", "confirm"},
	}
	twoStepFlow = Flow{
		Steps:  []Step{StepIdentification, StepPaymentMethod},
		Labels: []string{"identification", "payment"},
	}
)

func FlowFor(oneCheckout bool) Flow {
	if oneCheckout {
		return oneCheckoutFlow
	}
	return twoStepFlow
}

func (f Flow) index(s Step) int {
	for i, st := range f.Steps {
		if st == s {
			return i
		}
	}
	return -1
}

func (f Flow) Has(s Step) bool { return f.index(s) >= 0 }

// Next returns the step after s, or false when s is the last one.
func (f Flow) Next(s Step) (Step, bool) {
	i := f.index(s)
	if i < 0 || i+1 >= len(f.Steps) {
		return "", false
	}
	return f.Steps[i+1], true
}

func (f Flow) Last() Step { return f.Steps[len(f.Steps)-1] }

func (f Flow) Label(s Step) string {
	if i := f.index(s); i >= 0 {
		return f.Labels[i]
	}
	return ""
}

// Session is the whole checkout state. It is handed to the caller after
// every action and handed back on the next one.
type Session struct {
	ID          string               `json:"sid"`
	ProductRef  string               `json:"ref"`
	ProductID   string               `json:"pid"`
	OneCheckout bool                 `json:"one,omitempty"`
	Step        Step                 `json:"step"`
	Buyer       *domain.Buyer        `json:"buyer,omitempty"`
	Method      domain.PaymentMethod `json:"method,omitempty"`
	OrderID     string               `json:"oid,omitempty"`
}

func (s Session) Flow() Flow { return FlowFor(s.OneCheckout) }

// after reports whether the session has moved past step s.
func (s Session) after(step Step) bool {
	f := s.Flow()
	return f.index(s.Step) > f.index(step)
}
