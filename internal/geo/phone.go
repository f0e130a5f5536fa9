package geo

import (
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is assumed for numbers written without an international
// prefix.
const defaultRegion = "SA"

// PhoneCountry returns the international dial code of phone in "+" form,
// e.g. "+966". Numbers with a "+" or "00" prefix keep the code they carry;
// local numbers must be valid Saudi numbers. Anything else yields "".
func PhoneCountry(phone string) string {
	num, err := phonenumbers.ParseAndKeepRawInput(phone, defaultRegion)
	if err != nil {
		return ""
	}
	if num.GetCountryCodeSource() == phonenumbers.PhoneNumber_FROM_DEFAULT_COUNTRY && !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return "+" + strconv.Itoa(int(num.GetCountryCode()))
}
