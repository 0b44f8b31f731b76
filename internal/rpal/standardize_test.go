package rpal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustStandardize(t *testing.T, source string) *node {
	t.Helper()
	raw := mustParse(t, source)
	std, err := Standardize(raw)
	if err != nil {
		t.Fatalf("standardize error: %v", err)
	}
	return std
}

func Test_Standardize_rewrites(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			// let(=(X,E), P) -> gamma(lambda(X, P), E)
			name:  "let",
			input: "let x = 1 in x",
			expect: "gamma\n" +
				".lambda\n" +
				"..<ID:x>\n" +
				"..<ID:x>\n" +
				".<INT:1>\n",
		},
		{
			// where(P, =(X,E)) -> gamma(lambda(X, P), E)
			name:  "where",
			input: "x where x = 1",
			expect: "gamma\n" +
				".lambda\n" +
				"..<ID:x>\n" +
				"..<ID:x>\n" +
				".<INT:1>\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			std := mustStandardize(t, tc.input)
			assert.Equal(tc.expect, dottedIndent(std))
		})
	}
}

func Test_Standardize_rec(t *testing.T) {
	assert := assert.New(t)

	raw := newNode(labelRec, token{},
		newNode(labelEquals, token{}, leafID("x", token{}), leafID("x", token{})))
	std, err := Standardize(raw)
	if !assert.NoError(err) {
		return
	}

	expect := "=\n" +
		".<ID:x>\n" +
		".gamma\n" +
		"..Y*\n" +
		"..lambda\n" +
		"...<ID:x>\n" +
		"...<ID:x>\n"
	assert.Equal(expect, dottedIndent(std))
}

func Test_Standardize_at(t *testing.T) {
	assert := assert.New(t)

	std := mustStandardize(t, "x @Conc y")
	expect := "gamma\n" +
		".gamma\n" +
		"..<ID:Conc>\n" +
		"..<ID:x>\n" +
		".<ID:y>\n"
	assert.Equal(expect, dottedIndent(std))
}

func Test_Standardize_and(t *testing.T) {
	assert := assert.New(t)

	raw := newNode(labelAnd, token{},
		newNode(labelEquals, token{}, leafID("x", token{}), leafInt("1", token{})),
		newNode(labelEquals, token{}, leafID("y", token{}), leafInt("2", token{})))
	std, err := Standardize(raw)
	if !assert.NoError(err) {
		return
	}

	expect := "=\n" +
		".tau\n" +
		"..<ID:x>\n" +
		"..<ID:y>\n" +
		".tau\n" +
		"..<INT:1>\n" +
		"..<INT:2>\n"
	assert.Equal(expect, dottedIndent(std))
}

func Test_Standardize_idempotent(t *testing.T) {
	assert := assert.New(t)

	sources := []string{
		"let x = 1 in x",
		"let rec f x = f x in f 1",
		"fn x y . x + y",
		"x where x = 1",
		"1, 2, 3",
	}

	for _, src := range sources {
		std := mustStandardize(t, src)
		again, err := Standardize(std)
		if !assert.NoError(err) {
			continue
		}
		assert.Equal(dottedIndent(std), dottedIndent(again), "standardizing %q twice should be a no-op", src)
	}
}
