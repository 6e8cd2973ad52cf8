// Package dto defines data transfer objects for the FMP API responses.
package dto

// Profile is one element of the /api/v3/profile/{symbol} response array.
// Only the fields mapped to a stock are decoded.
type Profile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	LastDiv     float64 `json:"lastDiv"`
	Industry    string  `json:"industry"`
	MktCap      float64 `json:"mktCap"`
}

// ProfileResponse is the profile endpoint body. An unknown symbol yields an empty array.
type ProfileResponse []Profile
