package rest

import (
	"time"

	"github.com/sreedharv/ptrportal/internal/directory"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

type dealerPayload struct {
	PTIN     string `json:"ptin"`
	Name     string `json:"name"`
	Division string `json:"division"`
	Circle   string `json:"circle"`
}

func toDealerPayload(dealer directory.Dealer) dealerPayload {
	return dealerPayload{
		PTIN:     dealer.PTIN,
		Name:     dealer.Name,
		Division: dealer.Division,
		Circle:   dealer.Circle,
	}
}

type bankAccountPayload struct {
	Bank      string `json:"bank"`
	AccountNo string `json:"accountNo"`
	UserID    string `json:"userId"`
}

type loginRequest struct {
	PTIN     string `json:"ptin"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    dealerPayload `json:"user"`
}

type validateTokenResponse struct {
	Valid   bool          `json:"valid"`
	User    dealerPayload `json:"user"`
	Message string        `json:"message"`
}

type returnLineItemPayload struct {
	PayRange      string  `json:"payRange"`
	TaxRate       float64 `json:"taxRate"`
	EmployeeCount int     `json:"employeeCount"`
	TaxPayable    float64 `json:"taxPayable"`
}

type submitReturnRequest struct {
	PTIN           string                  `json:"ptin"`
	Name           string                  `json:"name"`
	Division       string                  `json:"division"`
	Circle         string                  `json:"circle"`
	ProfessionType string                  `json:"professionType"`
	TaxPeriod      string                  `json:"taxPeriod"`
	ReturnType     string                  `json:"returnType"`
	ReturnDetails  []returnLineItemPayload `json:"returnDetails"`
	TotalPayable   float64                 `json:"totalPayable"`
}

type submitReturnResponse struct {
	Message     string    `json:"message"`
	ReturnID    string    `json:"returnId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type returnPayload struct {
	ReturnID       string                  `json:"returnId"`
	PTIN           string                  `json:"ptin"`
	Name           string                  `json:"name"`
	Division       string                  `json:"division"`
	Circle         string                  `json:"circle"`
	ProfessionType string                  `json:"professionType"`
	TaxPeriod      string                  `json:"taxPeriod"`
	ReturnType     string                  `json:"returnType"`
	ReturnDetails  []returnLineItemPayload `json:"returnDetails"`
	TotalPayable   float64                 `json:"totalPayable"`
	SubmittedAt    time.Time               `json:"submittedAt"`
}

func toReturnPayload(record storage.TaxReturn) returnPayload {
	details := make([]returnLineItemPayload, 0, len(record.LineItems))
	for _, item := range record.LineItems {
		details = append(details, returnLineItemPayload(item))
	}
	return returnPayload{
		ReturnID:       record.ID,
		PTIN:           record.PTIN,
		Name:           record.Name,
		Division:       record.Division,
		Circle:         record.Circle,
		ProfessionType: record.ProfessionType,
		TaxPeriod:      record.TaxPeriod,
		ReturnType:     record.ReturnType,
		ReturnDetails:  details,
		TotalPayable:   record.TotalPayable,
		SubmittedAt:    record.SubmittedAt,
	}
}

type listReturnsResponse struct {
	Message string          `json:"message"`
	Returns []returnPayload `json:"returns"`
	Count   int             `json:"count"`
}

type submitPaymentRequest struct {
	PTIN          string  `json:"ptin"`
	Name          string  `json:"name"`
	TaxType       string  `json:"taxType"`
	Purpose       string  `json:"purpose"`
	TaxPeriodFrom string  `json:"taxPeriodFrom"`
	TaxPeriodTo   string  `json:"taxPeriodTo"`
	Amount        float64 `json:"amount"`
	Remarks       string  `json:"remarks"`
	Date          string  `json:"date"`
}

type submitPaymentResponse struct {
	Message          string    `json:"message"`
	PaymentID        string    `json:"paymentId"`
	CTDTransactionID string    `json:"ctdTransactionId"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

type validateBankRequest struct {
	BankName    string `json:"bankName"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	PaymentData struct {
		Amount float64 `json:"amount"`
	} `json:"paymentData"`
	ChallanNo string `json:"challanNo"`
	DDOCode   string `json:"ddocode"`
	HOA       string `json:"hoa"`
}

type bankDetailsPayload struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

type transactionContextPayload struct {
	ChallanNo string    `json:"challanNo"`
	DDOCode   string    `json:"ddocode"`
	HOA       string    `json:"hoa"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type validateBankResponse struct {
	Valid              bool                      `json:"valid"`
	Message            string                    `json:"message"`
	BankDetails        bankDetailsPayload        `json:"bankDetails"`
	BankRef            string                    `json:"bankRef"`
	TransactionDetails transactionContextPayload `json:"transactionDetails"`
}

type storeTransactionRequest struct {
	PTIN          string  `json:"ptin"`
	Name          string  `json:"name"`
	TaxType       string  `json:"taxType"`
	Purpose       string  `json:"purpose"`
	TaxPeriodFrom string  `json:"taxPeriodFrom"`
	TaxPeriodTo   string  `json:"taxPeriodTo"`
	Amount        float64 `json:"amount"`
	Remarks       string  `json:"remarks"`
	Date          string  `json:"date"`

	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`

	ChallanNo            string `json:"challanNo"`
	DDOCode              string `json:"ddocode"`
	HOA                  string `json:"hoa"`
	BankRef              string `json:"bankRef"`
	ETaxPaymentReference string `json:"etaxPaymentReference"`
	PaymentID            string `json:"paymentId"`

	BankTimestamp string `json:"bankTimestamp"`
}

type storeTransactionResponse struct {
	Message       string    `json:"message"`
	TransactionID string    `json:"transactionId"`
	CRN           string    `json:"crn"`
	CompletedAt   time.Time `json:"completedAt"`
}

type transactionPayload struct {
	TransactionID string  `json:"transactionId"`
	PTIN          string  `json:"ptin"`
	Name          string  `json:"name"`
	TaxType       string  `json:"taxType"`
	Purpose       string  `json:"purpose"`
	TaxPeriodFrom string  `json:"taxPeriodFrom"`
	TaxPeriodTo   string  `json:"taxPeriodTo"`
	Amount        float64 `json:"amount"`
	Remarks       string  `json:"remarks"`
	Date          string  `json:"date"`

	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`

	ChallanNo            string `json:"challanNo"`
	DDOCode              string `json:"ddocode"`
	HOA                  string `json:"hoa"`
	BankRef              string `json:"bankRef"`
	CRN                  string `json:"crn"`
	ETaxPaymentReference string `json:"etaxPaymentReference"`
	PaymentID            string `json:"paymentId"`

	MerchantName string `json:"merchantName"`
	TypeOfTax    string `json:"typeOfTax"`

	TransactionStatus string    `json:"transactionStatus"`
	BankTimestamp     time.Time `json:"bankTimestamp"`
	CompletedAt       time.Time `json:"completedAt"`
}

func toTransactionPayload(record storage.CompletedTransaction) transactionPayload {
	return transactionPayload{
		TransactionID:        record.ID,
		PTIN:                 record.PTIN,
		Name:                 record.Name,
		TaxType:              record.TaxType,
		Purpose:              record.Purpose,
		TaxPeriodFrom:        record.TaxPeriodFrom,
		TaxPeriodTo:          record.TaxPeriodTo,
		Amount:               record.Amount,
		Remarks:              record.Remarks,
		Date:                 record.Date,
		BankName:             record.BankName,
		AccountNumber:        record.AccountNumber,
		AccountHolder:        record.AccountHolder,
		ChallanNo:            record.ChallanNo,
		DDOCode:              record.DDOCode,
		HOA:                  record.HOA,
		BankRef:              record.BankRef,
		CRN:                  record.CRN,
		ETaxPaymentReference: record.EPaymentRef,
		PaymentID:            record.PaymentID,
		MerchantName:         record.MerchantName,
		TypeOfTax:            record.TypeOfTax,
		TransactionStatus:    record.Status,
		BankTimestamp:        record.BankTimestamp,
		CompletedAt:          record.CompletedAt,
	}
}

type transactionHistoryResponse struct {
	Message      string               `json:"message"`
	Transactions []transactionPayload `json:"transactions"`
	Count        int                  `json:"count"`
}

type transactionResponse struct {
	Message     string             `json:"message"`
	Transaction transactionPayload `json:"transaction"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
