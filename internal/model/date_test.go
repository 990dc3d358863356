package model

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCommonEra(t *testing.T) {
	tests := []struct {
		name    string
		be      int
		want    int
		wantErr bool
	}{
		{name: "typical declaration year", be: 2566, want: 2023},
		{name: "early plausible year", be: 2393, want: 1850},
		{name: "next year allowed", be: time.Now().Year() + 1 + 543, want: time.Now().Year() + 1},
		{name: "zero", be: 0, wantErr: true},
		{name: "negative", be: -5, wantErr: true},
		{name: "below plausible range", be: 2392, wantErr: true},
		{name: "two years ahead", be: time.Now().Year() + 2 + 543, wantErr: true},
		{name: "already common era", be: 1990, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCommonEra(tt.be)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrInvalidYear))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
