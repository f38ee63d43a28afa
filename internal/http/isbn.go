package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookscan/internal/isbn"
)

// ISBNController exposes the stateless ISBN operations. Inputs may carry
// hyphens or spaces; they are removed before parsing.
type ISBNController struct{}

func NewISBNController() *ISBNController {
	return &ISBNController{}
}

// ValidateResponse describes a parsed ISBN.
type ValidateResponse struct {
	ISBN      string `json:"isbn"`
	Valid     bool   `json:"valid"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	Formatted string `json:"formatted,omitempty"`
}

// ConvertResponse holds both forms of a converted ISBN.
type ConvertResponse struct {
	ISBN      string `json:"isbn"`
	Converted string `json:"converted"`
	ISBN10    string `json:"isbn10,omitempty"`
	ISBN13    string `json:"isbn13"`
}

// MatchResponse reports whether two codes identify the same book.
type MatchResponse struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Match bool   `json:"match"`
}

// UPCResponse holds the ISBN reconstructed from an extended UPC.
type UPCResponse struct {
	UPC    string `json:"upc"`
	ISBN10 string `json:"isbn10"`
	ISBN13 string `json:"isbn13"`
}

// Validate handles GET /api/isbn/validate?isbn=
func (ic *ISBNController) Validate(c *gin.Context) {
	raw, ok := requireQuery(c, "isbn")
	if !ok {
		return
	}

	v := isbn.Parse(isbn.Normalize(raw))
	resp := ValidateResponse{
		ISBN:   raw,
		Valid:  v.Valid(),
		Status: v.Status().String(),
		Type:   v.Type().String(),
	}
	if v.Valid() {
		resp.Formatted = isbn.Hyphenate(v.String())
	}
	c.JSON(http.StatusOK, resp)
}

// Convert handles GET /api/isbn/convert?isbn=
// Responds 400 for an invalid ISBN and 422 for a 979 ISBN-13, which has no
// ISBN-10 form.
func (ic *ISBNController) Convert(c *gin.Context) {
	raw, ok := requireQuery(c, "isbn")
	if !ok {
		return
	}

	v := isbn.Parse(isbn.Normalize(raw))
	converted, err := v.Convert()
	switch {
	case errors.Is(err, isbn.ErrInvalidISBN):
		respondCodedError(c, http.StatusBadRequest, codeInvalidISBN, "invalid ISBN: "+v.Status().String())
		return
	case errors.Is(err, isbn.ErrNotConvertible):
		respondCodedError(c, http.StatusUnprocessableEntity, codeNotConvertible, "979 ISBN-13 has no ISBN-10 form")
		return
	case err != nil:
		respondBadRequest(c, err.Error())
		return
	}

	isbn13, _ := v.To13()
	isbn10, _ := v.To10()
	c.JSON(http.StatusOK, ConvertResponse{
		ISBN:      raw,
		Converted: converted,
		ISBN10:    isbn10,
		ISBN13:    isbn13,
	})
}

// Match handles GET /api/isbn/match?a=&b=
func (ic *ISBNController) Match(c *gin.Context) {
	a, ok := requireQuery(c, "a")
	if !ok {
		return
	}
	b, ok := requireQuery(c, "b")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		A:     a,
		B:     b,
		Match: isbn.MatchStrings(isbn.Normalize(a), isbn.Normalize(b)),
	})
}

// FromUPC handles GET /api/isbn/upc?upc=
// Responds 404 when the UPC vendor has no known ISBN prefix and 400 when
// the code is too short to carry an extension.
func (ic *ISBNController) FromUPC(c *gin.Context) {
	raw, ok := requireQuery(c, "upc")
	if !ok {
		return
	}

	normalized := isbn.Normalize(raw)
	if len(normalized) < 6 {
		respondBadRequest(c, "upc is too short")
		return
	}
	if _, known := isbn.UPCPrefix(normalized[:6]); !known {
		respondCodedError(c, http.StatusNotFound, codeUnknownVendor, "no ISBN prefix known for this UPC vendor")
		return
	}

	v, ok := isbn.FromUPC(normalized)
	if !ok {
		respondBadRequest(c, "upc does not carry an ISBN extension")
		return
	}

	isbn13, err := v.To13()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, UPCResponse{
		UPC:    raw,
		ISBN10: v.String(),
		ISBN13: isbn13,
	})
}
