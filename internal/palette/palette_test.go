package palette

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/shapes"
)

func TestAbilityWithShapeUsesCatalog(t *testing.T) {
	f := NewFactory(shapes.Default())
	o, err := f.New(Payload{Type: TypeAbility, Name: "viper_toxic_screen"}, geom.Pt(100, 100), 0.5)
	require.NoError(t, err)
	assert.Equal(t, "viper_toxic_screen", o.Tool)
	require.Len(t, o.Points, 2)
	assert.Equal(t, geom.Pt(100, 100), o.Points[0])

	_, ok := shapes.Default().HitTest(geom.Pt(100, 100), o, 0.5)
	assert.True(t, ok)
}

func TestTokensAreCentred(t *testing.T) {
	f := NewFactory(shapes.Default())
	cases := []struct {
		p    Payload
		src  string
		sub  models.Subtype
		size float64
	}{
		{Payload{TypeAgent, "jett"}, "/agents/jett.png", models.SubtypeAgent, 40},
		{Payload{TypeAbility, "jett_updraft"}, "/abilities/jett_updraft_game.png", models.SubtypeAbility, 32},
		{Payload{TypeIcon, "spike"}, "/icons/spike.png", models.SubtypeIcon, 28},
	}
	for _, tc := range cases {
		o, err := f.New(tc.p, geom.Pt(200, 300), 1)
		require.NoError(t, err)
		assert.Equal(t, shapes.ToolImage, o.Tool)
		assert.Equal(t, tc.src, o.ImageSrc)
		assert.Equal(t, tc.sub, o.Subtype)
		assert.Equal(t, tc.size, o.Width)
		assert.Equal(t, geom.Pt(200, 300), shapes.TokenBounds(o).Center())
	}
}

func TestUnknownPayload(t *testing.T) {
	f := NewFactory(shapes.Default())
	_, err := f.New(Payload{Type: "weapon", Name: "vandal"}, geom.Pt(0, 0), 1)
	assert.True(t, errors.Is(err, ErrUnknownPayload))
	_, err = f.New(Payload{Type: TypeAgent}, geom.Pt(0, 0), 1)
	assert.True(t, errors.Is(err, ErrUnknownPayload))
}
