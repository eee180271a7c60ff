package analytics

import "github.com/janekbaraniewski/chatwrapped/internal/core"

// StatCard is one figure in the results header.
type StatCard struct {
	Label string
	Value int
}

// Summary returns the header cards. Users with media and users with links
// count the keys of the sparse mappings, not the totals.
func Summary(p core.AnalyticsPayload) []StatCard {
	return []StatCard{
		{Label: "Total Messages", Value: p.TotalMessages},
		{Label: "Active Users", Value: p.TotalUsers},
		{Label: "Users with Media", Value: p.MediaStats.Len()},
		{Label: "Users with Links", Value: p.SocialMediaLinks.Len()},
	}
}

// ViewModel pairs one payload with the selected tab. Changing the selection
// recomputes the projection synchronously.
type ViewModel struct {
	payload   core.AnalyticsPayload
	selection Selection
}

func NewViewModel(p core.AnalyticsPayload) *ViewModel {
	return &ViewModel{payload: p.Clone(), selection: SelectMessages}
}

func (vm *ViewModel) Selection() Selection { return vm.selection }

func (vm *ViewModel) Select(s Selection) {
	if s.Valid() {
		vm.selection = s
	}
}

func (vm *ViewModel) Next() {
	vm.selection = Selection((int(vm.selection) + 1) % len(Selections))
}

func (vm *ViewModel) Prev() {
	n := len(Selections)
	vm.selection = Selection((int(vm.selection) - 1 + n) % n)
}

func (vm *ViewModel) Current() ViewData {
	return Project(vm.payload, vm.selection)
}

func (vm *ViewModel) Summary() []StatCard {
	return Summary(vm.payload)
}

func (vm *ViewModel) Payload() core.AnalyticsPayload {
	return vm.payload.Clone()
}
