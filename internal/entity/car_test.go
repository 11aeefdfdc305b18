package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCar_IsActive(t *testing.T) {
	var c Car
	assert.True(t, c.IsActive(), "missing flag counts as active")
	c.SetActive(false)
	assert.False(t, c.IsActive())
}

func TestMergeCar(t *testing.T) {
	stored := Car{OrderNo: "A1", Title: "Volvo V60", Year: 2019, Price: "245 000 kr"}
	stored.SetActive(false)

	got, err := MergeCar(stored, Car{OrderNo: "A1", Price: "229 000 kr", Mileage: 88000})
	require.NoError(t, err)
	assert.Equal(t, "Volvo V60", got.Title)
	assert.Equal(t, 2019, got.Year)
	assert.Equal(t, 88000, got.Mileage)
	assert.Equal(t, "229 000 kr", got.Price)
	assert.True(t, got.IsActive())
	assert.False(t, stored.IsActive(), "stored value is not modified")
}

func TestCar_JSONKeepsUnknownFields(t *testing.T) {
	raw := `{"orderNo":"A1","title":"Golf","fuel":"diesel","gearbox":"auto","equipment":["hengerfeste","webasto"]}`

	var c Car
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "A1", c.OrderNo)
	assert.Equal(t, "Golf", c.Title)
	require.Len(t, c.Extra, 3)
	assert.JSONEq(t, `"diesel"`, string(c.Extra["fuel"]))

	c.SetActive(false)
	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"orderNo":"A1","title":"Golf","active":false,"fuel":"diesel","gearbox":"auto","equipment":["hengerfeste","webasto"]}`,
		string(out))
}

func TestCar_JSONWithoutExtra(t *testing.T) {
	var c Car
	require.NoError(t, json.Unmarshal([]byte(`{"orderNo":"B2","year":2020}`), &c))
	assert.Nil(t, c.Extra)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderNo":"B2","year":2020}`, string(out))
}

func TestMergeCar_Extra(t *testing.T) {
	stored := Car{OrderNo: "A1", Extra: map[string]json.RawMessage{
		"fuel":    json.RawMessage(`"diesel"`),
		"gearbox": json.RawMessage(`"manual"`),
	}}
	update := Car{OrderNo: "A1", Extra: map[string]json.RawMessage{"gearbox": json.RawMessage(`"auto"`)}}

	got, err := MergeCar(stored, update)
	require.NoError(t, err)
	assert.JSONEq(t, `"diesel"`, string(got.Extra["fuel"]))
	assert.JSONEq(t, `"auto"`, string(got.Extra["gearbox"]))
	assert.JSONEq(t, `"manual"`, string(stored.Extra["gearbox"]), "stored map is not modified")
}
