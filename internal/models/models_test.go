package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"lolitems/internal/apperror"
	"lolitems/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateItem(t *testing.T) {
	valid := models.Item{
		Name:        "Sunfire Aegis",
		Description: strPtr("Immolate nearby enemies."),
		Price:       2700,
		SellPrice:   1890,
		Stats:       map[models.Stat]int{models.StatArmor: 50, models.StatHealth: 450},
	}

	tests := []struct {
		name      string
		mutate    func(*models.Item)
		wantField string
	}{
		{name: "valid item", mutate: func(*models.Item) {}},
		{name: "no stats", mutate: func(i *models.Item) { i.Stats = nil }},
		{name: "missing name", mutate: func(i *models.Item) { i.Name = "" }, wantField: "name"},
		{name: "name too long", mutate: func(i *models.Item) { i.Name = strings.Repeat("x", 31) }, wantField: "name"},
		{name: "description too long", mutate: func(i *models.Item) { i.Description = strPtr(strings.Repeat("d", 1001)) }, wantField: "description"},
		{name: "negative price", mutate: func(i *models.Item) { i.Price = -1; i.SellPrice = -2 }, wantField: "price"},
		{name: "sell price equal to price", mutate: func(i *models.Item) { i.SellPrice = i.Price }, wantField: "sell_price"},
		{name: "sell price above price", mutate: func(i *models.Item) { i.SellPrice = i.Price + 1 }, wantField: "sell_price"},
		{name: "unknown stat", mutate: func(i *models.Item) { i.Stats[models.Stat("Mana")] = 1 }, wantField: "stats[Mana]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid.Clone()
			tt.mutate(&item)

			err := models.ValidateItem(item)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestStat_UnmarshalJSONKeys(t *testing.T) {
	var item models.Item
	err := json.Unmarshal([]byte(`{"name":"Thornmail","price":2700,"sell_price":1890,"stats":{"Armor":70,"Health":350}}`), &item)
	require.NoError(t, err)
	assert.Equal(t, map[models.Stat]int{models.StatArmor: 70, models.StatHealth: 350}, item.Stats)

	err = json.Unmarshal([]byte(`{"name":"Thornmail","stats":{"Attack Speed":10}}`), &item)
	assert.Error(t, err)
}

func TestParseStat(t *testing.T) {
	for _, s := range models.AllStats {
		parsed, err := models.ParseStat(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := models.ParseStat("armor")
	assert.Error(t, err)
}

func TestItem_CloneDoesNotAlias(t *testing.T) {
	orig := models.Item{
		Name:        "Warmog's Armor",
		Description: strPtr("Regenerates health."),
		Price:       3000,
		SellPrice:   2100,
		Stats:       map[models.Stat]int{models.StatHealth: 800},
	}

	cp := orig.Clone()
	cp.Stats[models.StatHealthRegen] = 200
	*cp.Description = "changed"

	assert.Len(t, orig.Stats, 1)
	assert.Equal(t, "Regenerates health.", *orig.Description)
}

func TestPriceFilter_Matches(t *testing.T) {
	ge := models.PriceFilter{Threshold: 100, GreaterOrEqual: true}
	lt := models.PriceFilter{Threshold: 100, GreaterOrEqual: false}

	assert.False(t, ge.Matches(50))
	assert.True(t, ge.Matches(100))
	assert.True(t, ge.Matches(150))
	assert.True(t, lt.Matches(50))
	assert.False(t, lt.Matches(100))
}

func TestValidateUserInput(t *testing.T) {
	assert.NoError(t, models.ValidateUserInput(models.UserInput{UserName: "alice", Password: "secret1"}))

	err := models.ValidateUserInput(models.UserInput{UserName: "alice", Password: "short"})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	err = models.ValidateUserInput(models.UserInput{UserName: strings.Repeat("a", 31), Password: "secret1"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "user_name")
}

func TestValidateUserUpdate(t *testing.T) {
	assert.NoError(t, models.ValidateUserUpdate(models.UserUpdate{}))
	assert.ErrorIs(t, models.ValidateUserUpdate(models.UserUpdate{Password: "abc"}), apperror.ErrValidation)
}

func TestValidatePasswordByteLength(t *testing.T) {
	// 40 runes, 80 bytes: short enough in characters, too long for bcrypt.
	multibyte := strings.Repeat("é", 40)

	err := models.ValidateUserInput(models.UserInput{UserName: "bob", Password: multibyte})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 72 bytes", verr.Fields["password"])

	err = models.ValidateUserUpdate(models.UserUpdate{Password: multibyte})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.NoError(t, models.ValidateUserInput(models.UserInput{UserName: "bob", Password: strings.Repeat("a", models.MaxPasswordBytes)}))
	assert.Error(t, models.ValidateUserInput(models.UserInput{UserName: "bob", Password: strings.Repeat("a", models.MaxPasswordBytes+1)}))
}

func TestValidateRequestStruct(t *testing.T) {
	type login struct {
		Username string `json:"username" validate:"required"`
	}
	err := models.Validate(login{})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"username": "is required"}, verr.Fields)
}
