package scenario

import (
	"fmt"
	"strconv"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
)

func paramString(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func paramInt(params map[string]any, key string, def int) (int, error) {
	switch v := params[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("param %s: unexpected %T", key, v)
	}
}

func paramBool(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func paramHex(params map[string]any, key string) ([]byte, error) {
	var b config.HexBytes
	if err := b.UnmarshalText([]byte(paramString(params, key))); err != nil {
		return nil, fmt.Errorf("param %s: %w", key, err)
	}
	return b, nil
}
