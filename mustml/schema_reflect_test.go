package mustml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaOf(t *testing.T) {
	type profile struct {
		Email string `json:"email"`
	}
	type demo struct {
		Name    string         `json:"name"`
		Count   int            `json:"count"`
		Ratio   float64        `json:"ratio"`
		Loading bool           `json:"loading"`
		Tags    []string       `json:"tags"`
		Extra   map[string]int `json:"extra"`
		Profile profile        `json:"profile"`

		Ignored string `json:"-"`
		hidden  int
	}
	_ = demo{hidden: 0}

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{
			name:  "struct value",
			value: demo{},
			want:  "{name:string,count:number,ratio:number,loading:bool,tags:list,extra:object,profile:{email:string}}",
		},
		{
			name:  "struct pointer",
			value: &demo{},
			want:  "{name:string,count:number,ratio:number,loading:bool,tags:list,extra:object,profile:{email:string}}",
		},
		{
			name:  "untagged fields keep Go names",
			value: struct{ Message string }{},
			want:  "{Message:string}",
		},
		{
			name:  "tag options are stripped",
			value: struct {
				Message string `json:"message,omitempty"`
			}{},
			want: "{message:string}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := SchemaOf(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.want, schema.String())
		})
	}
}

func TestSchemaOfErrors(t *testing.T) {
	for _, v := range []any{nil, 42, "str", []string{"a"}, map[string]int{}} {
		if _, err := SchemaOf(v); err == nil {
			t.Errorf("SchemaOf(%T) err = nil, want error", v)
		}
	}
}

func TestSchemaOfRecursiveType(t *testing.T) {
	type tree struct {
		Label    string  `json:"label"`
		Children []*tree `json:"children"`
	}
	schema, err := SchemaOf(tree{})
	require.NoError(t, err)

	f, ok := schema.Lookup("children")
	require.True(t, ok)
	require.Equal(t, KindList, f.Kind)
}
