// Package nit valida y normaliza el NIT colombiano con su dígito de verificación.
package nit

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalid NIT mal formado o con dígito de verificación incorrecto.
var ErrInvalid = errors.New("nit: inválido")

// pesos módulo 11 de la DIAN para los 9 dígitos base, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// VerificationDigit calcula el dígito de verificación de los 9 dígitos base.
func VerificationDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) != 9 {
		return 0, fmt.Errorf("%w: se esperaban 9 dígitos base, hay %d", ErrInvalid, len(digits))
	}
	sum := 0
	for i, d := range digits {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r), nil
	}
	return byte('0' + (11 - r)), nil
}

// Normalize acepta "900123456", "900.123.456-8" o "9001234568" y devuelve "900123456-8".
// Sin dígito de verificación lo calcula; con él, lo valida.
func Normalize(taxID string) (string, error) {
	digits := onlyDigits(taxID)
	switch len(digits) {
	case 9, 10:
	default:
		return "", fmt.Errorf("%w: %q debe tener 9 dígitos más el de verificación", ErrInvalid, taxID)
	}
	base := string(digits[:9])
	dv, err := VerificationDigit(base)
	if err != nil {
		return "", err
	}
	if len(digits) == 10 && digits[9] != dv {
		return "", fmt.Errorf("%w: dígito de verificación esperado %c, recibido %c", ErrInvalid, dv, digits[9])
	}
	return base + "-" + string(dv), nil
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
