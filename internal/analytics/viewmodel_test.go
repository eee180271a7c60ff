package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewModelDefaultsToMessages(t *testing.T) {
	vm := NewViewModel(decode(t, full))
	assert.Equal(t, SelectMessages, vm.Selection())
	assert.Equal(t, SelectMessages, vm.Current().Selection)
}

func TestViewModelSelect(t *testing.T) {
	vm := NewViewModel(decode(t, sparse))

	vm.Select(SelectMedia)
	v := vm.Current()
	assert.Equal(t, SelectMedia, v.Selection)
	assert.True(t, v.Empty)

	vm.Select(Selection(42))
	assert.Equal(t, SelectMedia, vm.Selection())
}

func TestViewModelCycle(t *testing.T) {
	vm := NewViewModel(decode(t, full))

	vm.Prev()
	assert.Equal(t, SelectLinks, vm.Selection())
	vm.Next()
	assert.Equal(t, SelectMessages, vm.Selection())
	vm.Next()
	vm.Next()
	assert.Equal(t, SelectMentions, vm.Selection())
}

func TestViewModelSelectionLeavesPayload(t *testing.T) {
	vm := NewViewModel(decode(t, full))
	before := vm.Payload()

	for _, s := range Selections {
		vm.Select(s)
		_ = vm.Current()
	}
	assert.Equal(t, before, vm.Payload())
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      string
		want    Selection
		wantErr bool
	}{
		{"", SelectMessages, false},
		{"Messages", SelectMessages, false},
		{"media", SelectMedia, false},
		{" mentions ", SelectMentions, false},
		{"links", SelectLinks, false},
		{"charts", SelectMessages, true},
	}
	for _, tt := range tests {
		got, err := ParseSelection(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSelectionLabels(t *testing.T) {
	assert.Equal(t, "💬 Messages", SelectMessages.Label())
	assert.Equal(t, "📸 Media", SelectMedia.Label())
	assert.Equal(t, "@ Mentions", SelectMentions.Label())
	assert.Equal(t, "🔗 Links", SelectLinks.Label())
}
