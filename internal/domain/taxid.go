package domain

// ValidCPF checks length and both check digits of a CPF. Formatting
// characters are ignored.
func ValidCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || repeated(d) {
		return false
	}
	return checkDigit(d[:9], weights(10, 9)) == d[9] &&
		checkDigit(d[:10], weights(11, 10)) == d[10]
}

// ValidCNPJ checks length and both check digits of a CNPJ.
func ValidCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || repeated(d) {
		return false
	}
	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:12], first) == d[12] && checkDigit(d[:13], second) == d[13]
}

func ValidTaxID(s string) bool {
	return ValidCPF(s) || ValidCNPJ(s)
}

// ValidPhoneBR accepts area code plus an 8 or 9 digit number.
func ValidPhoneBR(s string) bool {
	n := len(Digits(s))
	return n == 10 || n == 11
}

func weights(from, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = from - i
	}
	return w
}

func checkDigit(digits string, w []int) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * w[i]
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
