package apperr

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestIsFatal(t *testing.T) {
	asset := &AssetError{Path: "a.jpg", Err: errors.New("bad header")}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"asset", asset, false},
		{"wrapped asset", errors.Wrap(asset, "decode"), false},
		{"audio", &AudioError{Path: "x.mp3", Err: errors.New("no stream")}, true},
		{"config", Configf("fps", "must be positive"), true},
		{"empty", &EmptyInputError{}, true},
		{"plain", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := Configf("overlap", "%.1fs too long", 2.0).Error(); got != "config: overlap: 2.0s too long" {
		t.Errorf("unexpected config message %q", got)
	}
	if got := (&EmptyInputError{Skipped: 2}).Error(); !strings.Contains(got, "2 skipped") {
		t.Errorf("skipped count missing from %q", got)
	}

	cause := errors.New("bad header")
	err := errors.Wrap(&AssetError{Path: "a.jpg", Err: cause}, "decode")
	var asset *AssetError
	if !errors.As(err, &asset) || asset.Path != "a.jpg" {
		t.Fatalf("AssetError not found in %v", err)
	}
	if errors.Cause(asset.Unwrap()) != cause {
		t.Error("Unwrap should return the cause")
	}
}
