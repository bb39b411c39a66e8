package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	tests := []struct {
		name        string
		ownerID     string
		title       string
		nightlyRate int64
		errExpected error
	}{
		{name: "正常な物件作成", ownerID: "host-1", title: "海辺のコテージ", nightlyRate: 10000},
		{name: "オーナーID未指定", ownerID: "", title: "海辺のコテージ", nightlyRate: 10000, errExpected: ErrOwnerIDRequired},
		{name: "物件名未指定", ownerID: "host-1", title: "  ", nightlyRate: 10000, errExpected: ErrTitleRequired},
		{name: "料金がゼロ", ownerID: "host-1", title: "海辺のコテージ", nightlyRate: 0, errExpected: ErrInvalidNightlyRate},
		{name: "料金が負", ownerID: "host-1", title: "海辺のコテージ", nightlyRate: -100, errExpected: ErrInvalidNightlyRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProperty(tt.ownerID, tt.title, "", tt.nightlyRate)
			err := p.Validate()
			if tt.errExpected != nil {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.IsBookable())
			assert.True(t, p.IsOwnedBy(tt.ownerID))
			assert.False(t, p.IsOwnedBy("someone-else"))
		})
	}
}

func TestDeactivate(t *testing.T) {
	p := NewProperty("host-1", "海辺のコテージ", "", 10000)
	require.True(t, p.IsBookable())

	p.Deactivate()
	assert.False(t, p.IsBookable())
}
