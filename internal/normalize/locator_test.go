package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/normalize"
)

// firstKey returns the "key" of the first recommendation in o.
func firstKey(t *testing.T, o jsonv.Object) string {
	t.Helper()
	items, ok := normalize.Recommendations(o)
	require.True(t, ok)
	require.NotEmpty(t, items)
	k, _ := items[0].Get("key").AsString()
	return k
}

func TestLocate_Rules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"node itself", `{"recomendacoes":[{"key":"self"}],"result":{"recomendacoes":[{"key":"deeper"}]}}`, "self"},
		{"english alias", `{"recommendations":[{"key":"en"}]}`, "en"},
		{"optimized sub-object", `{"optimized":{"recomendacoes":[{"key":"opt"}]},"result":{"recomendacoes":[{"key":"r"}]}}`, "opt"},
		{"outputs data", `{"outputs":[{"data":{"other":1}},{"data":{"recomendacoes":[{"key":"out"}]}}]}`, "out"},
		{"outputs entry without data", `{"outputs":[{"recomendacoes":[{"key":"entry"}]}]}`, "entry"},
		{"outputs data as fenced string", `{"outputs":[{"data":"`+"```json\\n{\\\"recomendacoes\\\":[{\\\"key\\\":\\\"str\\\"}]}\\n```"+`"}]}`, "str"},
		{"result before metadata", `{"metadata":{"recomendacoes":[{"key":"meta"}]},"result":{"recomendacoes":[{"key":"res"}]}}`, "res"},
		{"result before earlier keys", `{"aaa":{"recomendacoes":[{"key":"a"}]},"result":{"recomendacoes":[{"key":"res"}]}}`, "res"},
		{"metadata before data list", `{"data":[{"recomendacoes":[{"key":"d"}]}],"metadata":{"recomendacoes":[{"key":"m"}]}}`, "m"},
		{"data list elements", `{"data":[{"x":1},{"recomendacoes":[{"key":"d2"}]}]}`, "d2"},
		{"declaration order scan", `{"b":{"recomendacoes":[{"key":"b"}]},"a":{"recomendacoes":[{"key":"a"}]}}`, "b"},
		{"inside array value", `{"list":[1,"x",{"recomendacoes":[{"key":"arr"}]}]}`, "arr"},
		{"embedded string", `{"raw":"noise {\"recomendacoes\":[{\"key\":\"emb\"}]} noise"}`, "emb"},
		{"outputs object scanned", `{"outputs":{"recomendacoes":[{"key":"a"}]}}`, "a"},
		{"outputs unmatched falls through", `{"outputs":[{"data":{}}],"result":{"recomendacoes":[{"key":"after"}]}}`, "after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, ok := normalize.Locate(mustParse(t, tt.in))
			require.True(t, ok)
			assert.Equal(t, tt.want, firstKey(t, o))
		})
	}
}

func TestLocate_ListFieldMustBeList(t *testing.T) {
	_, ok := normalize.Locate(mustParse(t, `{"recomendacoes":"none","result":{"recommendations":{"a":1}}}`))
	assert.False(t, ok)
}

// chain wraps a recommendation-bearing object in n "result" objects.
func chain(n int) jsonv.Value {
	payload := jsonv.NewObject()
	payload.Set("recomendacoes", jsonv.Array())
	v := jsonv.FromObject(payload)
	for i := 0; i < n; i++ {
		wrapper := jsonv.NewObject()
		wrapper.Set("result", v)
		v = jsonv.FromObject(wrapper)
	}
	return v
}

func TestLocate_DepthCeiling(t *testing.T) {
	_, ok := normalize.Locate(chain(normalize.MaxDepth))
	assert.True(t, ok, "payload at the ceiling is found")

	_, ok = normalize.Locate(chain(normalize.MaxDepth + 1))
	assert.False(t, ok, "payload past the ceiling is not found")
}

func TestLocate_VeryDeepInputTerminates(t *testing.T) {
	_, ok := normalize.Locate(chain(100000))
	assert.False(t, ok)

	arr := jsonv.Array()
	for i := 0; i < 100000; i++ {
		arr = jsonv.Array(arr)
	}
	_, ok = normalize.Locate(arr)
	assert.False(t, ok)
}

func TestLocate_NoMatch(t *testing.T) {
	for _, in := range []jsonv.Value{{}, jsonv.Null(), jsonv.Number(3), jsonv.String("plain"), mustParse(t, `{"a":{"b":[1,2]}}`)} {
		_, ok := normalize.Locate(in)
		assert.False(t, ok)
	}
}
