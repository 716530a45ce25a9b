package flagstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlagJSON_IDKeepsKind(t *testing.T) {
	text, err := json.Marshal(Flag{ID: TextID("1"), Enabled: true, Description: "d"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1","enabled":true,"description":"d"}`, string(text))

	num, err := json.Marshal(Flag{ID: IntID(1), Description: "d"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"enabled":false,"description":"d"}`, string(num))
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{in: `"beta_dashboard"`, want: TextID("beta_dashboard")},
		{in: `"42"`, want: TextID("42")},
		{in: `42`, want: IntID(42)},
		{in: `-5`, want: IntID(-5)},
		{in: `1.5`, wantErr: true},
		{in: `1e3`, wantErr: true},
		{in: `true`, wantErr: true},
		{in: `{}`, wantErr: true},
		{in: `[1]`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tc.in), &id)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, id)
		})
	}
}

func TestNewFlag_NullIsAbsent(t *testing.T) {
	var nf NewFlag
	err := json.Unmarshal([]byte(`{"id":null,"enabled":true}`), &nf)
	require.NoError(t, err)
	require.Nil(t, nf.ID)
	require.NotNil(t, nf.Enabled)
	require.Nil(t, nf.Description)
}

func TestID_String(t *testing.T) {
	require.Equal(t, "x", TextID("x").String())
	require.Equal(t, "-12", IntID(-12).String())
	require.NotEqual(t, TextID("1"), IntID(1))
}
