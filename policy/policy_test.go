package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verifid/sigma"
)

func TestShortCircuitOnInvalidProof(t *testing.T) {
	predicateCalled := false
	engine := NewEngine(func(attrs sigma.Attributes) (bool, []string) {
		predicateCalled = true
		return true, nil
	})

	decision := engine.Decide(false, true, sigma.Attributes{{Name: "gpa", Value: "4.0"}})

	assert.Equal(t, Deny, decision.Outcome)
	assert.False(t, decision.Granted())
	assert.Contains(t, decision.Reasons[0], "proof")
	assert.False(t, predicateCalled,
		"the attribute predicate must not run when authentication failed")
}

func TestShortCircuitOnInvalidCredential(t *testing.T) {
	predicateCalled := false
	engine := NewEngine(func(attrs sigma.Attributes) (bool, []string) {
		predicateCalled = true
		return true, nil
	})

	decision := engine.Decide(true, false, nil)

	assert.Equal(t, Deny, decision.Outcome)
	assert.Contains(t, decision.Reasons[0], "credential")
	assert.False(t, predicateCalled)
}

func TestGrantWithNilPredicate(t *testing.T) {
	decision := NewEngine(nil).Decide(true, true, nil)
	assert.Equal(t, Grant, decision.Outcome)
	assert.True(t, decision.Granted())
}

func TestPredicateDecides(t *testing.T) {
	engine := NewEngine(func(attrs sigma.Attributes) (bool, []string) {
		year, _ := attrs.Get("admission_year")
		if year < "2022" {
			return false, []string{"admission year too old"}
		}
		return true, []string{"admission year acceptable"}
	})

	granted := engine.Decide(true, true, sigma.Attributes{{Name: "admission_year", Value: "2024"}})
	assert.Equal(t, Grant, granted.Outcome)
	assert.Contains(t, granted.Reasons, "admission year acceptable")

	denied := engine.Decide(true, true, sigma.Attributes{{Name: "admission_year", Value: "2019"}})
	assert.Equal(t, Deny, denied.Outcome)
	assert.Contains(t, denied.Reasons, "admission year too old")
}

func TestRequireAttributes(t *testing.T) {
	predicate := RequireAttributes("department", "admission_year")

	ok, reasons := predicate(sigma.Attributes{
		{Name: "department", Value: "CS"},
		{Name: "admission_year", Value: "2024"},
	})
	assert.True(t, ok)
	assert.Contains(t, reasons, "all required attributes present")

	ok, reasons = predicate(sigma.Attributes{{Name: "department", Value: "CS"}})
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing required attribute: admission_year")

	ok, _ = predicate(sigma.Attributes{
		{Name: "department", Value: ""},
		{Name: "admission_year", Value: "2024"},
	})
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	pass := func(sigma.Attributes) (bool, []string) { return true, []string{"pass"} }
	fail := func(sigma.Attributes) (bool, []string) { return false, []string{"fail"} }

	ok, reasons := All(pass, fail)(nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"pass", "fail"}, reasons)

	ok, _ = All(pass, pass)(nil)
	assert.True(t, ok)
}
