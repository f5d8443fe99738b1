package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestNewURLSource_DropsBlanks(t *testing.T) {
	t.Parallel()

	src := NewURLSource([]string{"", "  https://www.linkedin.com/in/jane ", "\t"})
	assert.Equal(t, []string{"https://www.linkedin.com/in/jane"}, src.URLs)
	assert.Equal(t, "1 profiles", src.Describe())
}

func TestURLSource_Targets(t *testing.T) {
	t.Parallel()

	src := NewURLSource([]string{
		"http://linkedin.com/in/Jane-Doe/?trk=x",
		"https://www.linkedin.com/in/company",
		"https://www.linkedin.com/school/mit",
	})
	targets, err := src.Targets(context.Background())
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, "jane-doe", targets[0].Identifier)
	assert.Equal(t, "https://linkedin.com/in/Jane-Doe", targets[0].ProfileURL)
	assert.Empty(t, targets[0].Invalid)

	assert.Equal(t, "unknown", targets[1].Identifier)
	assert.Equal(t, "Unknown", targets[1].Name)
	assert.Equal(t, model.ReasonReservedProfileID, targets[1].Invalid)

	assert.Equal(t, model.ReasonNoProfileID, targets[2].Invalid)
}

func TestURLSource_FoundMessage(t *testing.T) {
	t.Parallel()

	src := &URLSource{}
	assert.Equal(t, "Processing 3 profiles", src.FoundMessage(3, 3))
	assert.Equal(t, "Found 120 profiles, processing 100", src.FoundMessage(120, 100))
}

func TestNewPostSource_ParsesID(t *testing.T) {
	t.Parallel()

	src := NewPostSource("https://www.linkedin.com/posts/jane_voice-activity-7392508631268835328-AbCd", nil)
	assert.Equal(t, "7392508631268835328", src.PostID)
	assert.Equal(t, "7392508631268835328", src.Describe())
}

func TestPostSource_EmptyID(t *testing.T) {
	t.Parallel()

	_, err := (&PostSource{}).Targets(context.Background())
	require.Error(t, err)
}

func TestInvalidURLs(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://www.linkedin.com/in/ok",
		"example.com/jane",
		"",
		"/in/relative-ok",
		"twitter.com/jane",
		"not a url",
		"facebook.com/jane",
	}
	assert.Equal(t, []string{"example.com/jane", "twitter.com/jane", "not a url"}, InvalidURLs(urls, 3))
	assert.Empty(t, InvalidURLs(urls[:1], 3))
}
