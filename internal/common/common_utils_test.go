package common

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Talk":               "my-talk",
		"my talk":               "my-talk",
		"  Café   Stories!! ":   "cafe-stories",
		"Über--Interviews 2024": "uber-interviews-2024",
		"   ":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugify_NonLatinTitles(t *testing.T) {
	ascii := regexp.MustCompile(`^[a-z0-9-]+$`)
	seen := map[string]string{}
	for _, title := range []string{"口述历史", "Интервью", "Συνέντευξη", "???", "🎙️"} {
		s := Slugify(title)
		assert.Regexp(t, ascii, s, title)
		assert.Equal(t, s, Slugify(title), "stable for %s", title)
		if prev, ok := seen[s]; ok {
			t.Errorf("%q and %q share slug %q", prev, title, s)
		}
		seen[s] = title
	}
	assert.Equal(t, Slugify("???"), Slugify("  ???  "))
}

func TestNormalizeEmailAndIsEmail(t *testing.T) {
	assert.Equal(t, "ann@example.org", NormalizeEmail("  Ann@Example.ORG "))
	assert.True(t, IsEmail("ann@example.org"))
	assert.False(t, IsEmail("Ann <ann@example.org>"))
	assert.False(t, IsEmail("not-an-email"))
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret(32)
	assert.NoError(t, err)
	b, err := RandomSecret(32)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestRedactPayload(t *testing.T) {
	body := []byte(`{"email":"a@b.c","password":"hunter22","nested":{"token":"abc"},"list":[{"refresh_token":"x"}]}`)

	out, ok := RedactPayload(body).(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", out["email"])
	assert.Equal(t, redactedValue, out["password"])
	assert.Equal(t, redactedValue, out["nested"].(map[string]interface{})["token"])
	assert.Equal(t, redactedValue, out["list"].([]interface{})[0].(map[string]interface{})["refresh_token"])

	assert.Nil(t, RedactPayload(nil))
	assert.Equal(t, map[string]int{"bytes": 3}, RedactPayload([]byte("abc")))
}
