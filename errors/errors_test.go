package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseSchema,
				Kind:     KindUnsupported,
				Path:     []string{"components", "Speed", "value"},
				Type:     "bool",
				HostType: "bool",
				Detail:   "not a primitive numeric",
			},
			contains: []string{"[schema]", "unsupported", "components.Speed.value", "schema type bool", "host type bool", "not a primitive numeric"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseGenerate,
				Kind:   KindIO,
				Detail: "write file",
				Cause:  errors.New("disk full"),
			},
			contains: []string{"[generate]", "io", "write file", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidEnum,
		Path:  []string{"GameState"},
	}

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidEnum}) {
		t.Error("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindInvalidEnum}) {
		t.Error("unexpected match with different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidTag}) {
		t.Error("unexpected match with different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseCompile, KindOverflow).
		Path("components").
		Type("u8").
		HostType("byte").
		Value(300).
		Cause(cause).
		Detail("%d members", 300).
		Build()

	if err.Phase != PhaseCompile || err.Kind != KindOverflow {
		t.Fatalf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if err.Detail != "300 members" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if err.Value != 300 {
		t.Errorf("value: got %v", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through errors.Is")
	}
	if err.Type != "u8" || err.HostType != "byte" {
		t.Errorf("types: got %q/%q", err.Type, err.HostType)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		text string
	}{
		{"unsupported", Unsupported(PhaseSchema, []string{"x"}, "field type bool"), KindUnsupported, "field type bool"},
		{"duplicate", Duplicate(PhaseSchema, nil, "Speed"), KindDuplicate, `"Speed" declared more than once`},
		{"invalid enum", InvalidEnum(PhaseDecode, nil, 7, "GameState"), KindInvalidEnum, "invalid ordinal 7 for GameState"},
		{"invalid tag", InvalidTag(PhaseDecode, "custom", 4, 2), KindInvalidTag, "tag 4 out of range (2 declared)"},
		{"out of bounds", OutOfBounds(PhaseDecode, nil, 5, 3), KindOutOfBounds, "index 5 out of bounds (length 3)"},
		{"not found", NotFound(PhaseRuntime, "prefab resource", "Cubes"), KindNotFound, `prefab resource "Cubes" not found`},
		{"invalid state", InvalidState("tick", "loaded"), KindInvalidState, "tick not allowed in state loaded"},
		{"nil", NilPointer(PhaseLoad, "sink"), KindNilPointer, "sink is nil"},
		{"overflow", Overflow(PhaseCompile, nil, 300, "256 members"), KindOverflow, "value 300 exceeds 256 members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind: got %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.text) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.text)
			}
		})
	}
}

func TestWrapAndIO(t *testing.T) {
	cause := errors.New("permission denied")
	err := IO(PhaseGenerate, "remove stale file", cause)
	if !errors.Is(err, cause) {
		t.Error("IO should wrap cause")
	}

	wrapped := Wrap(PhaseRuntime, KindInvalidData, err, "spawn")
	if !errors.Is(wrapped, cause) {
		t.Error("Wrap should preserve the chain")
	}

	var target *Error
	if !errors.As(wrapped, &target) || target.Detail != "spawn" {
		t.Errorf("errors.As: got %+v", target)
	}
}
