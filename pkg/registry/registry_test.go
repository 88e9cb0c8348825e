package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-workers/internal/common/config"
)

func TestBuiltin_IsValid(t *testing.T) {
	reg := Builtin()
	require.NoError(t, reg.Validate())
	assert.Len(t, reg.Activities, 9)

	for _, a := range reg.Activities {
		assert.Equal(t, "completed", a.ImplementationStatus, a.ID)
		assert.Contains(t, a.ErrorCodes, "INPUT_VALIDATION_FAILED", a.ID)
	}
}

func TestBuiltin_MatchesShippedConfig(t *testing.T) {
	t.Setenv("DB_USER", "portal")
	cfg, err := config.LoadFromFile(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	for _, a := range Builtin().Activities {
		_, ok := cfg.Workers[config.WorkerKey(a.TaskType)]
		assert.True(t, ok, "no worker config for %s", a.TaskType)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	require.NoError(t, SaveRegistry(Builtin(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, Builtin(), loaded)

	a, ok := loaded.Find("fir.notify")
	require.True(t, ok)
	assert.Equal(t, 5, a.Retries)

	_, ok = loaded.Find("crm.user-create")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	valid := Activity{ID: "a", DisplayName: "A", TaskType: "x.a", Category: "x", Timeout: "5s"}

	tests := []struct {
		name   string
		modify func(r *ActivityRegistry)
		want   string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"missing id", func(r *ActivityRegistry) { r.Activities[0].ID = "" }, "ID"},
		{"duplicate id", func(r *ActivityRegistry) {
			dup := valid
			dup.TaskType = "x.b"
			r.Activities = append(r.Activities, dup)
		}, "duplicate activity ID"},
		{"duplicate task type", func(r *ActivityRegistry) {
			dup := valid
			dup.ID = "b"
			r.Activities = append(r.Activities, dup)
		}, "duplicate task type"},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }, "Category"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{valid}}
			tt.modify(reg)
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
