// Package gstin provides GSTIN (Goods and Services Tax Identification Number)
// validation and state-code helpers. A GSTIN is a 15-character identifier whose
// first two digits are the state code and whose last character is a mod-36
// checksum over the preceding fourteen.
package gstin

import (
	"regexp"
	"strings"
)

// URP is the sentinel used for unregistered counter-parties.
const URP = "URP"

// alphabet is the 36-character base used by the checksum: digits then A-Z.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var structureRe = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)

// Valid reports whether gstin passes both the structural pattern and the
// mod-36 checksum. The empty string and the URP sentinel are not valid GSTINs;
// callers that treat them as "unregistered" must check for that first.
func Valid(gstin string) bool {
	if len(gstin) != 15 {
		return false
	}
	if !structureRe.MatchString(gstin) {
		return false
	}
	return checkCharacter(gstin[:14]) == gstin[14]
}

// ValidStructure reports whether gstin matches the structural pattern without
// verifying the checksum. Registration lookups use this weaker check so that
// provider data wins over locally computed check digits.
func ValidStructure(gstin string) bool {
	return len(gstin) == 15 && structureRe.MatchString(gstin)
}

// checkCharacter computes the checksum character for the first 14 positions.
// Every second character's value is doubled, then the base-36 digit sum of
// each value is accumulated (Lehmer-style).
func checkCharacter(prefix string) byte {
	sum := 0
	for i := 0; i < len(prefix); i++ {
		v := charValue(prefix[i])
		if i%2 != 0 {
			v *= 2
		}
		sum += v/36 + v%36
	}
	check := (36 - sum%36) % 36
	return alphabet[check]
}

func charValue(c byte) int {
	// The structural pattern restricts input to [0-9A-Z], so this never misses.
	return strings.IndexByte(alphabet, c)
}

// StateCode returns the two-digit state code prefix of a GSTIN, or "" when
// the input is too short.
func StateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// StateName resolves a two-digit state code to its name, or "" when unknown.
func StateName(code string) string {
	return stateNames[code]
}

// stateNames maps GST state codes to state names as published by the portal.
var stateNames = map[string]string{
	"01": "Jammu & Kashmir", "02": "Himachal Pradesh", "03": "Punjab",
	"04": "Chandigarh", "05": "Uttarakhand", "06": "Haryana",
	"07": "Delhi", "08": "Rajasthan", "09": "Uttar Pradesh",
	"10": "Bihar", "11": "Sikkim", "12": "Arunachal Pradesh",
	"13": "Nagaland", "14": "Manipur", "15": "Mizoram",
	"16": "Tripura", "17": "Meghalaya", "18": "Assam",
	"19": "West Bengal", "20": "Jharkhand", "21": "Odisha",
	"22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"26": "Dadra & Nagar Haveli and Daman & Diu", "27": "Maharashtra",
	"28": "Andhra Pradesh (Old)", "29": "Karnataka", "30": "Goa",
	"31": "Lakshadweep", "32": "Kerala", "33": "Tamil Nadu",
	"34": "Puducherry", "35": "Andaman & Nicobar Islands",
	"36": "Telangana", "37": "Andhra Pradesh",
}
