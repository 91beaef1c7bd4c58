package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		decimals uint8
		expected string
	}{
		{"0.1", 18, "100000000000000000"},
		{"21", 18, "21000000000000000000"},
		{"2.1", 18, "2100000000000000000"},
		{".5", 2, "50"},
		{"0", 18, "0"},
		{"1000000", 0, "1000000"},
		{"0.000000000000000001", 18, "1"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}

	_, err := Parse("0.0000000000000000001", 18)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Parse("abc", 18)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2.1", MustParse("2.1", 18).Format(18))
	assert.Equal(t, "0", Zero().Format(18))
	assert.Equal(t, "0.000000000000000001", New(1).Format(18))
	assert.Equal(t, "1365", MustParse("1365", 18).Format(18))
	assert.Equal(t, "42", New(42).Format(0))
}

func TestCheckedArithmetic(t *testing.T) {
	a := New(10)
	b := New(3)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "13", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "7", diff.String())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = Max().Add(New(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSaturatingArithmetic(t *testing.T) {
	assert.True(t, New(3).SaturatingSub(New(10)).IsZero())
	assert.Equal(t, "7", New(10).SaturatingSub(New(3)).String())
	assert.True(t, Max().SaturatingAdd(New(1)).Equal(Max()))
}

func TestMulDiv(t *testing.T) {
	// 21e18 * 1e17 / 1e18 = 2.1e18
	hardcap, err := MustParse("21", 18).MulDiv(MustParse("0.1", 18), Pow10(18))
	require.NoError(t, err)
	assert.Equal(t, "2.1", hardcap.Format(18))

	// Intermediate product exceeds 256 bits but the result fits.
	big := Max()
	got, err := big.MulDiv(New(2), New(2))
	require.NoError(t, err)
	assert.True(t, got.Equal(big))

	_, err = big.MulDiv(New(2), New(1))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = New(1).MulDiv(New(1), Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	// Truncates toward zero.
	got, err = New(10).MulDiv(New(1), New(3))
	require.NoError(t, err)
	assert.Equal(t, "3", got.String())
}

func TestPerMille(t *testing.T) {
	fee, err := MustParse("2.1", 18).PerMille(50)
	require.NoError(t, err)
	assert.Equal(t, "0.105", fee.Format(18))
}

func TestMinAndCompare(t *testing.T) {
	assert.Equal(t, "1", Min(New(5), New(1), New(3)).String())
	assert.Equal(t, "5", Min(New(5)).String())
	assert.Equal(t, -1, New(1).Cmp(New(2)))
	assert.True(t, New(1).LessThan(New(2)))
	assert.False(t, New(2).LessThan(New(2)))
}

func TestBinaryAndText(t *testing.T) {
	a := MustParse("1.69", 18)

	bin, err := a.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, bin, 32)

	var back Amount
	require.NoError(t, back.UnmarshalBinary(bin))
	assert.True(t, a.Equal(back))

	text, err := a.MarshalText()
	require.NoError(t, err)
	var fromText Amount
	require.NoError(t, fromText.UnmarshalText(text))
	assert.True(t, a.Equal(fromText))

	assert.ErrorIs(t, back.UnmarshalBinary(make([]byte, 33)), ErrInvalid)
}
