package encode

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-studio/internal/ir"
)

// Encode renders a value tree as compact JSON text, preserving object member
// order. It is the single emission path used by the document serializer.
func Encode(v *ir.Value) (string, error) {
	var sb strings.Builder
	if err := appendValue(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func appendValue(sb *strings.Builder, v *ir.Value) error {
	switch v.Kind {
	case ir.NullKind:
		sb.WriteString("null")
	case ir.BoolKind:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case ir.NumberKind:
		return AppendNumber(sb, v.Number)
	case ir.StringKind:
		AppendQuoted(sb, v.Str)
	case ir.ArrayKind:
		sb.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := appendValue(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case ir.ObjectKind:
		sb.WriteByte('{')
		for i := range v.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			AppendQuoted(sb, v.Members[i].Key)
			sb.WriteByte(':')
			if err := appendValue(sb, v.Members[i].Value); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}

// formatNumber renders a float in fixed-point form, matching the formatting
// the document builder uses for numeric-table leaves so values survive a
// build/serialize round trip unchanged.
func formatNumber(f float64) string {
	return ir.FormatNumber(f)
}
