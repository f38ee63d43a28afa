package isbn

// Some mass-market paperbacks carry only an extended UPC barcode, e.g.
// "0 70999 00225 5 30054" on a Del Rey printing of Niven's World of Ptavvs:
//
//	070999  vendor prefix, maps to ISBN prefix 0-345 (Ballantine)
//	00225   price
//	5       UPC-A check digit
//	30054   extension, the rest of the ISBN payload
//
// The ISBN check digit is not encoded and has to be computed: 0-345-30054-8.
// Mapping source: https://www.eblong.com/zarf/bookscan/shelvescripts/upc-map

// upcExtensionOffset is where the extension starts in a separator-free
// extended UPC: 6 prefix + 5 price + 1 check digit.
const upcExtensionOffset = 12

var upcToISBNPrefix = map[string]string{
	"014794": "08041",
	"018926": "0445",
	"027778": "0449",
	"037145": "0812",
	"042799": "0785",
	"043144": "0688",
	"044903": "0312",
	"045863": "0517",
	"046594": "0064",
	"047132": "0152",
	"051487": "08167",
	"051488": "0140",
	"060771": "0002",
	"065373": "0373",
	"070992": "0523",
	"070993": "0446",
	"070999": "0345",
	"071001": "0380",
	"071009": "0440",
	"071125": "088677",
	"071136": "0451",
	"071149": "0451",
	"071152": "0515",
	"071162": "0451",
	"071268": "08217",
	"071831": "0425",
	"071842": "08439",
	"072742": "0441",
	"076714": "0671",
	"076783": "0553",
	"076814": "0449",
	"078021": "0872",
	"079808": "0394",
	"090129": "0679",
	"099455": "0061",
	"099769": "0451",
}

// UPCPrefix returns the ISBN prefix registered for a six-digit UPC vendor
// prefix.
func UPCPrefix(vendor string) (string, bool) {
	p, ok := upcToISBNPrefix[vendor]
	return p, ok
}

// FromUPC reconstructs an ISBN-10 from an extended UPC barcode. ok is false
// when the vendor prefix is unknown or the digits do not add up to an
// ISBN-10.
//
// The check digit of the result is computed, not read from the barcode, so
// the value is self-consistent but not independently verified.
func FromUPC(upc string) (ISBN, bool) {
	upc = Normalize(upc)
	if len(upc) <= upcExtensionOffset {
		return ISBN{}, false
	}

	prefix, ok := upcToISBNPrefix[upc[:6]]
	if !ok {
		return ISBN{}, false
	}

	payload := prefix + upc[upcExtensionOffset:]
	if len(payload) != payloadLength {
		return ISBN{}, false
	}

	// The trailing 'X' is a placeholder check digit, overwritten below.
	v := Parse(payload + "X")
	if v.n != Length10 {
		return ISBN{}, false
	}

	v.digits[Length10-1] = checkDigit10(v.digits[:Length10-1])
	v.status = StatusValid
	return v, true
}

// ParseBarcode parses a scanned code: a plain ISBN is tried first and an
// extended UPC second. Separators are removed before parsing. The plain
// parse result is returned when neither succeeds.
func ParseBarcode(raw string) ISBN {
	s := Normalize(raw)
	v := Parse(s)
	if v.Valid() {
		return v
	}
	if u, ok := FromUPC(s); ok {
		return u
	}
	return v
}
