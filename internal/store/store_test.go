package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectnet/internal/domain"
	"inspectnet/internal/normalize"
)

type failingBlobStore struct {
	loadErr error
	saveErr error
	data    []byte
}

func (f *failingBlobStore) Load(context.Context) ([]byte, error) { return f.data, f.loadErr }
func (f *failingBlobStore) Save(context.Context, []byte) error   { return f.saveErr }

type countingObserver struct {
	saves    int
	migrated int
}

func (c *countingObserver) Saved(int) { c.saves++ }
func (c *countingObserver) Migrated() { c.migrated++ }

func decodeStored(t *testing.T, data []byte) StoredData {
	t.Helper()
	var stored StoredData
	require.NoError(t, json.Unmarshal(data, &stored))
	return stored
}

func sample() domain.Settings {
	at := 4.0
	return domain.Settings{
		InspectedItemTypes: []domain.ItemType{{
			ID: "lock", Name: "Lock", Kind: domain.ItemKindPoint,
			Components: []domain.Component{{ID: "gate", Name: "Gate", RatingScale: domain.RatingScale{Min: 0, Max: 5}, WeightPercent: 100}},
		}},
		NonInspectedItemTypes: []domain.NonInspectedItemType{{ID: "marker", Name: "Marker", Kind: domain.ItemKindPoint}},
		Collections: []domain.Collection{{
			ID: "canal", Name: "Canal",
			Items: []domain.Item{{ID: "a", Name: "A", TypeID: "lock", Station: &at}},
		}},
	}
}

func TestLoad_AbsentBlob(t *testing.T) {
	blobs := NewMemoryBlobStore(nil)
	observer := &countingObserver{}
	s := New(blobs)
	s.SetObserver(observer)

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, domain.DefaultSettings(), s.Settings())
	assert.Equal(t, 1, blobs.Saves(), "migration persists exactly once")
	assert.Equal(t, 1, observer.migrated)
	assert.Equal(t, 1, observer.saves)

	stored := decodeStored(t, blobs.Data())
	assert.Equal(t, domain.SchemaVersion, stored.SchemaVersion)
	assert.Equal(t, domain.NewDatabase(), stored.Database)
}

func TestLoad_MigrationIsOneShot(t *testing.T) {
	blobs := NewMemoryBlobStore(nil)

	require.NoError(t, New(blobs).Load(context.Background()))
	require.NoError(t, New(blobs).Load(context.Background()))

	assert.Equal(t, 1, blobs.Saves())
}

func TestLoad_CurrentSchema(t *testing.T) {
	data, err := json.Marshal(StoredData{SchemaVersion: domain.SchemaVersion, Database: normalize.ToDatabase(sample())})
	require.NoError(t, err)
	blobs := NewMemoryBlobStore(data)
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, sample(), s.Settings())
	assert.Equal(t, 0, blobs.Saves(), "current schema is not rewritten on load")
}

func TestLoad_LegacySettings(t *testing.T) {
	legacy := `{
		"inspectedItemTypes": [
			{"id": "lock", "name": "Lock", "kind": "point",
			 "components": [{"id": "gate", "name": "Gate", "weightPercent": 30}]}
		],
		"collections": [
			{"id": "canal", "name": "Canal", "items": [
				{"id": "a", "name": "A", "typeId": "lock", "station": 12},
				{"id": "b", "name": "B", "typeId": "lock"}
			]}
		]
	}`
	blobs := NewMemoryBlobStore([]byte(legacy))
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	settings := s.Settings()
	require.Len(t, settings.InspectedItemTypes, 1)
	assert.NotNil(t, settings.NonInspectedItemTypes, "missing groups are defaulted")
	assert.Empty(t, settings.NonInspectedItemTypes)

	gate := settings.InspectedItemTypes[0].Components[0]
	assert.Equal(t, domain.DefaultRatingScale(), gate.RatingScale)
	assert.Equal(t, 30.0, gate.WeightPercent)

	items := settings.Collections[0].Items
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Station)
	assert.Equal(t, 12.0, *items[0].Station)
	assert.Nil(t, items[1].Station)

	assert.Equal(t, 1, blobs.Saves())
	stored := decodeStored(t, blobs.Data())
	assert.Equal(t, []string{"lock"}, stored.Database.InspectedItemTypeIDs)
	assert.Equal(t, settings, normalize.ToSettings(stored.Database))
}

func TestLoad_UnrecognisedBlobs(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"json null", `null`},
		{"not json", `not json at all`},
		{"array", `[1, 2, 3]`},
		{"future schema", `{"schemaVersion": 2, "database": {}}`},
		{"v1 tag without database", `{"schemaVersion": 1}`},
		{"v1 tag with scalar database", `{"schemaVersion": 1, "database": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := NewMemoryBlobStore([]byte(tt.blob))
			s := New(blobs)

			require.NoError(t, s.Load(context.Background()))

			assert.Equal(t, domain.DefaultSettings(), s.Settings())
			assert.Equal(t, 1, blobs.Saves())
		})
	}
}

func TestLoad_BlobStoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := New(&failingBlobStore{loadErr: boom})

	err := s.Load(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestLoad_MigrationSaveError(t *testing.T) {
	boom := errors.New("read only")
	s := New(&failingBlobStore{saveErr: boom})

	err := s.Load(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestSaveFromSettings(t *testing.T) {
	blobs := NewMemoryBlobStore(nil)
	s := New(blobs)
	require.NoError(t, s.Load(context.Background()))

	invalid := sample()
	invalid.InspectedItemTypes[0].Components[0].WeightPercent = 500

	require.NoError(t, s.SaveFromSettings(context.Background(), invalid))

	assert.Equal(t, 2, blobs.Saves())
	stored := decodeStored(t, blobs.Data())
	assert.Equal(t, 500.0, stored.Database.Components["gate"].WeightPercent, "invalid settings still save")
	assert.Equal(t, invalid, s.Settings())
	assert.Equal(t, normalize.ToDatabase(invalid), s.Database())

	reloaded := New(blobs)
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Equal(t, invalid, reloaded.Settings())
}
