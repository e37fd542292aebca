package highlight

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ppiankov/commitmood/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkTexts(chunks []model.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func joinChunks(chunks []model.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

func TestNewMatcher_LexiconOrder(t *testing.T) {
	m := NewMatcher([]string{"love", "Loves", "LOVE", "", "bug", "it"})
	assert.Equal(t, []string{"loves", "love", "bug", "it"}, m.Lexicon())
}

func TestSplit_LongestMatchFirst(t *testing.T) {
	chunks := Split("she loves it", []string{"love", "loves"})

	require.Equal(t, []string{"she ", "loves", " it"}, chunkTexts(chunks))
	assert.Equal(t, model.ChunkPlain, chunks[0].Kind)
	assert.Equal(t, model.ChunkAttributed, chunks[1].Kind)
	assert.Equal(t, model.ChunkPlain, chunks[2].Kind)
}

func TestSplit_CaseInsensitivePreservesSource(t *testing.T) {
	chunks := Split("bug BUG Bug", []string{"Bug"})

	assert.Equal(t, []string{"bug", " ", "BUG", " ", "Bug"}, chunkTexts(chunks))
	for _, i := range []int{0, 2, 4} {
		assert.Equal(t, model.ChunkAttributed, chunks[i].Kind)
	}
}

func TestSplit_MatchesFollowLowercasing(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []string
		want  []string
	}{
		{"dotted capital I", "İyi iş", []string{"iyi"}, []string{"İyi"}},
		{"kelvin sign", "\u212a and k", []string{"k"}, []string{"\u212a", "k"}},
		{"long s is not s", "ſ and S", []string{"s"}, []string{"S"}},
		{"final sigma is not sigma", "ς Σ", []string{"σ"}, []string{"Σ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.words)
			assert.Equal(t, tt.text, joinChunks(chunks))

			var attributed []string
			for _, c := range chunks {
				if c.Kind == model.ChunkAttributed {
					attributed = append(attributed, c.Text)
					assert.Equal(t, tt.words[0], strings.ToLower(c.Text))
				}
			}
			assert.Equal(t, tt.want, attributed)
		})
	}
}

func TestSplit_MetacharactersAreLiteral(t *testing.T) {
	text := "Fix c++ build (wip) for a.b and axb, cc+ too"
	chunks := Split(text, []string{"c++", "(wip)", "a.b", "*", "[", "\\"})

	var attributed []string
	for _, c := range chunks {
		if c.Kind == model.ChunkAttributed {
			attributed = append(attributed, c.Text)
		}
	}
	assert.Equal(t, []string{"c++", "(wip)", "a.b"}, attributed)
	assert.Equal(t, text, joinChunks(chunks))
}

func TestSplit_EmptyInputs(t *testing.T) {
	assert.Empty(t, Split("", []string{"bug"}))
	assert.Empty(t, Split("", nil))

	chunks := Split("refactor parser", nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, model.Chunk{Text: "refactor parser", Kind: model.ChunkPlain}, chunks[0])

	chunks = Split("refactor parser", []string{"", ""})
	require.Len(t, chunks, 1)
	assert.Equal(t, model.ChunkPlain, chunks[0].Kind)
}

func TestSplit_WholeTextMatch(t *testing.T) {
	chunks := Split("Broken", []string{"broken"})
	require.Len(t, chunks, 1)
	assert.Equal(t, model.Chunk{Text: "Broken", Kind: model.ChunkAttributed}, chunks[0])
}

func TestSplit_AdjacentMatchesHaveNoEmptyChunks(t *testing.T) {
	chunks := Split("loveit", []string{"love", "it"})
	assert.Equal(t, []string{"love", "it"}, chunkTexts(chunks))
	for _, c := range chunks {
		assert.NotEmpty(t, c.Text)
	}
}

func TestSplit_Lossless(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcnoeglv -.+*()[]?ÉéßÜ\n\t12")
	vocabulary := []string{"no", "node", "love", "loves", "a.b", "(", "c++", "é", "ÉÉ", "-", "12", "?"}

	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)

		var words []string
		for _, w := range vocabulary {
			if rng.Intn(2) == 0 {
				words = append(words, w)
			}
		}

		chunks := Split(text, words)
		require.Equal(t, text, joinChunks(chunks), "text=%q words=%q", text, words)
		for _, c := range chunks {
			require.NotEmpty(t, c.Text)
		}

		segments := Classify(chunks, model.NewListAttribution(words, nil))
		require.Len(t, segments, len(chunks))
		require.Equal(t, text, model.JoinSegments(segments))
	}
}

func TestLexiconKey_CanonicalForSameSet(t *testing.T) {
	a := lexiconKey(normalizeLexicon([]string{"bad", "great", "Bug"}))
	b := lexiconKey(normalizeLexicon([]string{"bug", "GREAT", "bad", "bad"}))
	c := lexiconKey(normalizeLexicon([]string{"bug", "great"}))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
