package params

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// FromGo converts a dynamically-typed Go value, as produced by the YAML and
// XML readers, into its cty equivalent. Mappings become objects, sequences
// become tuples, and nil becomes cty.NullVal(cty.DynamicPseudoType).
func FromGo(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(val), nil
	case string:
		return cty.StringVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case *big.Float:
		return cty.NumberVal(val), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(val))
		for i, e := range val {
			conv, err := FromGo(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = conv
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(val))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			conv, err := FromGo(val[k])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = conv
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("cannot represent %T as a parameter value", v)
	}
}
