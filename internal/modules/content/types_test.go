package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "532", formatCount(532))
	assert.Equal(t, "1.5K", formatCount(1500))
	assert.Equal(t, "12.3K", formatCount(12345))
	assert.Equal(t, "2.1M", formatCount(2_100_000))
}

func TestSplitDate(t *testing.T) {
	assert.Equal(t, "2025-06-01", splitDate("2025-06-01T10:30:00Z"))
	assert.Equal(t, "2025-06-01", splitDate("2025-06-01"))
	assert.Equal(t, dateOnly(time.Now()), splitDate(""))
}

func TestValidType(t *testing.T) {
	for _, valid := range []string{"article", "repo", "paper", "video", "tool"} {
		assert.True(t, ValidType(valid), valid)
	}
	assert.False(t, ValidType("podcast"))
	assert.False(t, ValidType(""))
}

func TestDifficultyFromText(t *testing.T) {
	advanced := []string{"advanced", "research"}
	beginner := []string{"beginner", "tutorial"}

	assert.Equal(t, DifficultyAdvanced, difficultyFromText("Advanced transformer research", advanced, beginner))
	assert.Equal(t, DifficultyBeginner, difficultyFromText("A beginner tutorial", advanced, beginner))
	assert.Equal(t, DifficultyIntermediate, difficultyFromText("building a web server", advanced, beginner))
	// advanced keywords win when both appear
	assert.Equal(t, DifficultyAdvanced, difficultyFromText("advanced beginner guide", advanced, beginner))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	out := truncate("héllo wörld", 5)
	assert.Equal(t, []rune(out)[:5], []rune("héllo"))
	assert.True(t, len([]rune(out)) <= 8) // 5 runes plus ellipsis
}

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, "63 min", parseISODuration("PT1H2M3S"))
	assert.Equal(t, "15 min", parseISODuration("PT15M"))
	assert.Equal(t, "1 min", parseISODuration("PT45S"))
	assert.Equal(t, "10 min", parseISODuration(""))
	assert.Equal(t, "10 min", parseISODuration("garbage"))
}

func TestVideoEngagementBounds(t *testing.T) {
	assert.Equal(t, 0, videoEngagement(videoStats{}))

	huge := videoEngagement(videoStats{views: 100_000_000, likes: 50_000_000})
	assert.LessOrEqual(t, huge, 100)
	assert.GreaterOrEqual(t, huge, 50)
}

func TestCategorizeTool(t *testing.T) {
	assert.Equal(t, "LLM Framework", categorizeTool([]string{"llm"}, ""))
	assert.Equal(t, "Vector & RAG", categorizeTool(nil, "a fast embedding database"))
	assert.Equal(t, "Audio AI", categorizeTool([]string{"tts"}, "text to speech"))
	assert.Equal(t, "AI Tool", categorizeTool([]string{"misc"}, "general utility"))
}

func TestVideoDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyBeginner, videoDifficulty("Getting started with PyTorch", ""))
	assert.Equal(t, DifficultyAdvanced, videoDifficulty("Deep dive into attention", ""))
	assert.Equal(t, DifficultyIntermediate, videoDifficulty("Build a chat app", ""))
}

func TestExtractArxivID(t *testing.T) {
	assert.Equal(t, "2501.01234v1", extractArxivID("http://arxiv.org/abs/2501.01234v1"))
	assert.Equal(t, "plain-id", extractArxivID("plain-id"))
}

func TestAbstractInsights(t *testing.T) {
	summary := "We propose a novel attention mechanism for long sequences. " +
		"Experiments show a 40 percent reduction in memory usage on standard benchmarks. " +
		"The method generalizes to vision transformers without modification. " +
		"Code is released under an open license for reproducibility."
	insights := abstractInsights(summary)
	assert.Len(t, insights, 3)
	assert.Contains(t, insights[0], "novel attention mechanism")
}

func TestSortByEngagement(t *testing.T) {
	items := []Item{
		{ID: "low", EngagementScore: 10},
		{ID: "high", EngagementScore: 90},
		{ID: "mid", EngagementScore: 50},
	}
	sortByEngagement(items)
	assert.Equal(t, "high", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "low", items[2].ID)
}
