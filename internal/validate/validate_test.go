package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefs struct {
	Start string `validate:"omitempty,hhmm"`
	Phone string `validate:"required,phone"`
	Email string `validate:"omitempty,email"`
}

func TestStructCustomTags(t *testing.T) {
	require.NoError(t, Struct(prefs{Start: "22:30", Phone: "+90 532 000 00 00"}))

	err := Struct(prefs{Start: "24:10", Phone: "abc", Email: "nope"})
	require.Error(t, err)
	f := Fields(err)
	assert.Equal(t, "hhmm", f["Start"])
	assert.Equal(t, "phone", f["Phone"])
	assert.Equal(t, "email", f["Email"])
}

func TestLocalURL(t *testing.T) {
	assert.True(t, LocalURL("/orders?page=2"))
	assert.True(t, LocalURL("/"))
	assert.False(t, LocalURL("//evil.example"))
	assert.False(t, LocalURL(`/\evil.example`))
	assert.False(t, LocalURL("https://evil.example"))
	assert.False(t, LocalURL(""))
}

func TestClampAndPage(t *testing.T) {
	assert.Equal(t, 7, Clamp("1", 30, 7, 90))
	assert.Equal(t, 90, Clamp("365", 30, 7, 90))
	assert.Equal(t, 30, Clamp("x", 30, 7, 90))
	assert.Equal(t, 1, Page("-3"))
	assert.Equal(t, 4, Page("4"))
}

func TestDateAndID(t *testing.T) {
	d, ok := Date("2025-02-28")
	require.True(t, ok)
	assert.Equal(t, 28, d.Day())
	_, ok = Date("28/02/2025")
	assert.False(t, ok)
	d, ok = Date("")
	assert.True(t, ok)
	assert.Nil(t, d)

	_, ok = ID("00000000-0000-0000-0000-000000000000")
	assert.False(t, ok)
	_, ok = ID("3fa85f64-5717-4562-b3fc-2c963f66afa6")
	assert.True(t, ok)
}

func TestQAllowsTurkishLetters(t *testing.T) {
	q, ok := Q("  Şekerli çay ")
	assert.True(t, ok)
	assert.Equal(t, "Şekerli çay", q)
	_, ok = Q("<script>")
	assert.False(t, ok)
}

func TestRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	d := func(s string) *time.Time {
		v, ok := Date(s)
		require.True(t, ok)
		return v
	}

	from, to, ok := Range(nil, nil, now, 30)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -30), from)
	assert.Equal(t, now, to)

	_, _, ok = Range(d("2025-03-10"), d("2025-03-01"), now, 30)
	assert.False(t, ok, "end before start")

	_, _, ok = Range(d("2024-06-14"), d("2025-06-15"), now, 30)
	assert.True(t, ok, "366 days")

	_, _, ok = Range(d("2024-06-13"), d("2025-06-15"), now, 30)
	assert.False(t, ok, "367 days")

	_, _, ok = Range(d("0001-01-01"), d("9999-12-31"), now, 30)
	assert.False(t, ok)

	_, _, ok = Range(d("2020-01-01"), nil, now, 30)
	assert.False(t, ok, "open end resolves to now")
}
