package display

import (
	"image"
	"testing"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/accelerant/virtual"
	"github.com/gogpu/display/color"
)

// recordingBackend wraps a virtual card and records the device name its
// init hook receives.
type recordingBackend struct {
	card   *virtual.Card
	device string
	hooked bool
}

func (b *recordingBackend) Hook() accelerant.HookFunc {
	inner := b.card.Hook()
	return func(f accelerant.Feature) any {
		b.hooked = true
		if f == accelerant.InitAccelerant {
			initFn := inner(f).(accelerant.InitFunc)
			return accelerant.InitFunc(func(device string) error {
				b.device = device
				return initFn(device)
			})
		}
		return inner(f)
	}
}

func newRecording(t *testing.T) *recordingBackend {
	t.Helper()
	card := virtual.New()
	t.Cleanup(card.Close)
	return &recordingBackend{card: card}
}

func TestDefaultOptions(t *testing.T) {
	o := newOptions(nil)
	if o.device != DefaultDevice {
		t.Errorf("device = %q, want %q", o.device, DefaultDevice)
	}
	if o.tileSize <= 0 {
		t.Errorf("tileSize = %d", o.tileSize)
	}
	if o.logger != nil || o.face != nil || o.backend != nil {
		t.Error("unexpected non-nil defaults")
	}
}

func TestOptionsIgnoreZeroValues(t *testing.T) {
	o := newOptions([]DriverOption{WithTileSize(0), WithDevice("")})
	def := defaultOptions()
	if o.tileSize != def.tileSize || o.device != def.device {
		t.Errorf("zero values overrode defaults: %+v", o)
	}
}

func TestWithDevice(t *testing.T) {
	tests := []struct {
		name string
		opts []DriverOption
		want string
	}{
		{"default", nil, DefaultDevice},
		{"custom", []DriverOption{WithDevice("graphics/card1")}, "graphics/card1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newRecording(t)
			drv := NewAccelerantDriver(append(tt.opts, WithBackend(b))...)
			if err := drv.Initialize(); err != nil {
				t.Fatal(err)
			}
			defer drv.Shutdown()
			if b.device != tt.want {
				t.Errorf("init device = %q, want %q", b.device, tt.want)
			}
		})
	}
}

func TestWithHookTakesPrecedence(t *testing.T) {
	unused := newRecording(t)
	card := virtual.New()
	t.Cleanup(card.Close)

	drv := NewAccelerantDriver(WithBackend(unused), WithHook(card.Hook()))
	if err := drv.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer drv.Shutdown()
	if unused.hooked {
		t.Error("backend consulted although a hook was given")
	}
	if card.Calls(accelerant.InitAccelerant) != 1 {
		t.Errorf("hook card initialized %d times", card.Calls(accelerant.InitAccelerant))
	}
}

func TestWithFace(t *testing.T) {
	face := stubFace{g: monoGlyph}
	drv := newSoftware(t, 16, 8, color.RGB32, WithFace(face))
	w, err := drv.StringWidth("abcd", nil)
	if err != nil {
		t.Fatal(err)
	}
	if w != 12 {
		t.Errorf("StringWidth() = %v, want 12 from the injected face", w)
	}
}

func TestWithTileSize(t *testing.T) {
	drv := newSoftware(t, 64, 64, color.RGB32, WithTileSize(8))
	drv.TakeDamage()
	_ = drv.FillRect(image.Rect(9, 9, 10, 10), nil)
	got := drv.TakeDamage()
	if len(got) != 1 || got[0] != image.Rect(8, 8, 16, 16) {
		t.Errorf("TakeDamage() = %v, want one 8 pixel tile", got)
	}
}
