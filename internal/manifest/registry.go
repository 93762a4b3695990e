package manifest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTargetExists    = errors.New("manifest: target already exists")
	ErrUnknownTarget   = errors.New("manifest: unknown target")
	ErrInvalidTarget   = errors.New("manifest: invalid target")
	ErrUnsupportedPath = errors.New("manifest: unsupported platform for browser")
)

// Registry stores install targets by browser id.
type Registry struct {
	items map[string]Target
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Target)}
}

// DefaultRegistry holds every browser the host knows how to install for.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Target{
		{ID: "chrome", Name: "Chrome", Family: FamilyChrome},
		{ID: "chromium", Name: "Chromium", Family: FamilyChrome},
		{ID: "brave", Name: "Brave", Family: FamilyChrome},
		{ID: "vivaldi", Name: "Vivaldi", Family: FamilyChrome},
		{ID: "edge", Name: "Microsoft Edge", Family: FamilyChrome},
		{ID: "firefox", Name: "Firefox", Family: FamilyFirefox},
		{ID: "librewolf", Name: "LibreWolf", Family: FamilyFirefox},
	} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

func ValidateTarget(t Target) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTarget)
	}
	if !isValidID(t.ID) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidTarget, t.ID)
	}
	return nil
}

func (r *Registry) Register(t Target) error {
	if err := ValidateTarget(t); err != nil {
		return err
	}
	if _, ok := r.items[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrTargetExists, t.ID)
	}
	r.items[t.ID] = t
	return nil
}

func (r *Registry) Resolve(id string) (Target, error) {
	t, ok := r.items[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return t, nil
}

// List returns targets ordered by id.
func (r *Registry) List() []Target {
	list := make([]Target, 0, len(r.items))
	for _, t := range r.items {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
