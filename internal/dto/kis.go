package dto

// Wire types for the KIS open API. Field names follow the upstream JSON
// contract, which uses abbreviated Korean romanizations.

// KISTokenRequest is the body of POST /oauth2/tokenP.
type KISTokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	AppSecret string `json:"appsecret"`
}

// KISTokenResponse is the access token grant.
type KISTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// KISPriceResponse wraps the inquire-price output.
type KISPriceResponse struct {
	RtCd   string `json:"rt_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		StckPrpr string `json:"stck_prpr"` // current price
		PrdyVrss string `json:"prdy_vrss"` // change vs previous day
		PrdyCtrt string `json:"prdy_ctrt"` // change rate
		StckOprc string `json:"stck_oprc"` // open
		StckHgpr string `json:"stck_hgpr"` // high
		StckLwpr string `json:"stck_lwpr"` // low
		AcmlVol  string `json:"acml_vol"`  // accumulated volume
	} `json:"output"`
}

// KISOrderBookResponse wraps the inquire-asking-price output. Only the best
// ask and bid levels are mapped.
type KISOrderBookResponse struct {
	RtCd    string `json:"rt_cd"`
	Msg1    string `json:"msg1"`
	Output1 struct {
		Askp1         string `json:"askp1"`           // best ask price
		Bidp1         string `json:"bidp1"`           // best bid price
		AskpRsqn1     string `json:"askp_rsqn1"`      // best ask remaining quantity
		BidpRsqn1     string `json:"bidp_rsqn1"`      // best bid remaining quantity
		TotalAskpRsqn string `json:"total_askp_rsqn"` // total ask remaining quantity
		TotalBidpRsqn string `json:"total_bidp_rsqn"` // total bid remaining quantity
	} `json:"output1"`
}

// KISDailyPriceItem is one row of the inquire-daily-price output.
type KISDailyPriceItem struct {
	StckBsopDate string `json:"stck_bsop_date"` // trading date YYYYMMDD
	StckClpr     string `json:"stck_clpr"`      // close
	StckOprc     string `json:"stck_oprc"`      // open
	StckHgpr     string `json:"stck_hgpr"`      // high
	StckLwpr     string `json:"stck_lwpr"`      // low
	AcmlVol      string `json:"acml_vol"`       // volume
}

// KISDailyPriceResponse wraps the inquire-daily-price output.
type KISDailyPriceResponse struct {
	RtCd   string              `json:"rt_cd"`
	Msg1   string              `json:"msg1"`
	Output []KISDailyPriceItem `json:"output"`
}

// KISMinutePriceItem is one row of the minute chart output.
type KISMinutePriceItem struct {
	StckBsopDate string `json:"stck_bsop_date"` // YYYYMMDD
	StckCntgHour string `json:"stck_cntg_hour"` // HHMMSS
	StckPrpr     string `json:"stck_prpr"`      // close of the interval
	StckOprc     string `json:"stck_oprc"`
	StckHgpr     string `json:"stck_hgpr"`
	StckLwpr     string `json:"stck_lwpr"`
	CntgVol      string `json:"cntg_vol"`
}

// KISMinutePriceResponse wraps the minute chart output.
type KISMinutePriceResponse struct {
	RtCd    string               `json:"rt_cd"`
	Msg1    string               `json:"msg1"`
	Output2 []KISMinutePriceItem `json:"output2"`
}

// KISBalanceResponse wraps the inquire-balance output.
type KISBalanceResponse struct {
	RtCd    string `json:"rt_cd"`
	Msg1    string `json:"msg1"`
	Output1 []struct {
		Pdno        string `json:"pdno"`          // symbol code
		PrdtName    string `json:"prdt_name"`     // symbol name
		HldgQty     string `json:"hldg_qty"`      // holding quantity
		PchsAvgPric string `json:"pchs_avg_pric"` // average buy price
		Prpr        string `json:"prpr"`          // current price
		EvluAmt     string `json:"evlu_amt"`      // evaluation amount
		EvluPflsAmt string `json:"evlu_pfls_amt"` // evaluation profit/loss
		EvluPflsRt  string `json:"evlu_pfls_rt"`  // evaluation profit rate
	} `json:"output1"`
	Output2 []struct {
		DncaTotAmt      string `json:"dnca_tot_amt"`       // total deposit
		PchsAmtSmtlAmt  string `json:"pchs_amt_smtl_amt"`  // total buy amount
		EvluAmtSmtlAmt  string `json:"evlu_amt_smtl_amt"`  // total evaluation amount
		EvluPflsSmtlAmt string `json:"evlu_pfls_smtl_amt"` // total profit/loss
	} `json:"output2"`
}

// KISDepositResponse wraps the inquire-psbl-order output.
type KISDepositResponse struct {
	RtCd   string `json:"rt_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		OrdPsblCash string `json:"ord_psbl_cash"` // orderable cash
		NrcvbBuyAmt string `json:"nrcvb_buy_amt"` // max buy amount
	} `json:"output"`
}

// KISOrderRequest is the body of the order-cash endpoint.
type KISOrderRequest struct {
	CANO       string `json:"CANO"`
	AcntPrdtCd string `json:"ACNT_PRDT_CD"`
	Pdno       string `json:"PDNO"`
	OrdDvsn    string `json:"ORD_DVSN"` // "00" limit, "01" market
	OrdQty     string `json:"ORD_QTY"`
	OrdUnpr    string `json:"ORD_UNPR"`
}

// KISOrderResponse wraps the order-cash output.
type KISOrderResponse struct {
	RtCd   string `json:"rt_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		Odno   string `json:"ODNO"`    // order number
		OrdTmd string `json:"ORD_TMD"` // order time
	} `json:"output"`
}

// KISOrderListResponse wraps the inquire-daily-ccld output.
type KISOrderListResponse struct {
	RtCd    string `json:"rt_cd"`
	Msg1    string `json:"msg1"`
	Output1 []struct {
		Odno         string `json:"odno"`
		Pdno         string `json:"pdno"`
		PrdtName     string `json:"prdt_name"`
		SllBuyDvsnCd string `json:"sll_buy_dvsn_cd"` // "02" buy, "01" sell
		OrdQty       string `json:"ord_qty"`
		OrdUnpr      string `json:"ord_unpr"`
		TotCcldQty   string `json:"tot_ccld_qty"`
		AvgPrvs      string `json:"avg_prvs"`
		OrdTmd       string `json:"ord_tmd"`
	} `json:"output1"`
}
