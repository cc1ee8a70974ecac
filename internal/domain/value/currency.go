package value

// Currency template ids.
const (
	CurrencyRoubles = "5449016a4bdc2d6f028b456f"
	CurrencyDollars = "5696686a4bdc2da3298b456a"
	CurrencyEuros   = "569668774bdc2da2298b4568"
	CurrencyGP      = "5d235b4d86f7742e017bc88a"
)

// IsCurrency reports whether tpl is a money template used in payment lines.
func IsCurrency(tpl string) bool {
	switch tpl {
	case CurrencyRoubles, CurrencyDollars, CurrencyEuros, CurrencyGP:
		return true
	default:
		return false
	}
}
