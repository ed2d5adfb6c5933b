package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"STUDENT", "TEACHER", "GUARDIAN", "ADMIN"} {
		role, err := ParseRole(raw)
		assert.NoError(t, err)
		assert.EqualValues(t, raw, role)
	}
	for _, raw := range []string{"", "student", "PRINCIPAL", "ADMIN "} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestIsValidTag(t *testing.T) {
	assert.True(t, IsValidTag(string(TagMaths)))
	assert.True(t, IsValidTag(string(TagGeneral)))
	assert.False(t, IsValidTag("maths"))
	assert.False(t, IsValidTag("Astrology"))
}

func TestThreadMakeDisplayable(t *testing.T) {
	now := time.Now()
	thread := &Thread{
		ContentMetadata: &ContentMetadata{
			Deleted:   true,
			DeletedAt: &now,
			Images:    []Image{{Url: "blob"}},
		},
		Title: "secret",
		Body:  "secret body",
	}
	thread.MakeDisplayable()
	assert.Empty(t, thread.Title)
	assert.Empty(t, thread.Body)
	assert.Empty(t, thread.Images)
	// audit flags stay visible
	assert.True(t, thread.Deleted)
	assert.NotNil(t, thread.DeletedAt)
}

func TestThreadMakeDisplayableLeavesLiveContent(t *testing.T) {
	thread := &Thread{
		ContentMetadata: &ContentMetadata{},
		Title:           "kept",
		Body:            "kept body",
	}
	thread.MakeDisplayable()
	assert.Equal(t, "kept", thread.Title)
	assert.Equal(t, "kept body", thread.Body)
}

func TestPostTreeMakeDisplayable(t *testing.T) {
	tree := &PostTree{
		Post: &Post{
			ContentMetadata: &ContentMetadata{Deleted: true},
			Body:            "gone",
		},
		Replies: []*PostTree{
			{
				Post: &Post{
					ContentMetadata: &ContentMetadata{},
					Body:            "still here",
				},
			},
		},
	}
	tree.MakeDisplayable()
	assert.Empty(t, tree.Body)
	assert.Equal(t, "still here", tree.Replies[0].Body)
}
