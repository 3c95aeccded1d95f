package rest

import (
	"net/http"
	"time"

	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/requestctx"
	"github.com/sreedharv/ptrportal/internal/services/portal/bank"
	"github.com/sreedharv/ptrportal/internal/services/portal/settlement"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Professional Tax Portal backend is running"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeLoginInvalidCredentials, "Invalid PTIN or password"))
		return
	}

	dealer, err := s.dir.FindDealerByCredentials(request.PTIN, request.Password)
	if err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeLoginInvalidCredentials, "Invalid PTIN or password"))
		return
	}

	signed, err := s.tokens.Issue(dealer)
	if err != nil {
		writeJSONError(w, apperrors.Wrap(apperrors.CodeUnknown, "issue session token", err))
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   signed,
		User:    toDealerPayload(dealer),
	})
}

func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	dealer, _ := requestctx.DealerFromContext(r.Context())
	writeJSON(w, http.StatusOK, validateTokenResponse{
		Valid:   true,
		User:    dealerPayload{PTIN: dealer.PTIN, Name: dealer.Name},
		Message: "Token is valid",
	})
}

func (s *Server) handleDealerInfo(w http.ResponseWriter, r *http.Request) {
	caller, _ := requestctx.DealerFromContext(r.Context())
	dealer, err := s.dir.FindDealerByID(caller.PTIN)
	if err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeDealerNotFound, "Dealer not found"))
		return
	}
	writeJSON(w, http.StatusOK, toDealerPayload(dealer))
}

func (s *Server) handleDealerByPTIN(w http.ResponseWriter, r *http.Request) {
	dealer, err := s.dir.FindDealerByID(r.PathValue("ptin"))
	if err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeDealerNotFound, "Dealer not found for this PTIN"))
		return
	}
	writeJSON(w, http.StatusOK, toDealerPayload(dealer))
}

func (s *Server) handleBankDetails(w http.ResponseWriter, r *http.Request) {
	accounts := s.dir.BankAccounts()
	payload := make([]bankAccountPayload, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, bankAccountPayload{
			Bank:      account.Bank,
			AccountNo: account.AccountNo,
			UserID:    account.Holder,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSubmitReturn(w http.ResponseWriter, r *http.Request) {
	var request submitReturnRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeReturnMissingFields, "Missing required fields"))
		return
	}

	lineItems := make([]storage.ReturnLineItem, 0, len(request.ReturnDetails))
	for _, item := range request.ReturnDetails {
		lineItems = append(lineItems, storage.ReturnLineItem(item))
	}
	record, err := s.filing.SubmitReturn(r.Context(), storage.TaxReturn{
		PTIN:           request.PTIN,
		Name:           request.Name,
		Division:       request.Division,
		Circle:         request.Circle,
		ProfessionType: request.ProfessionType,
		TaxPeriod:      request.TaxPeriod,
		ReturnType:     request.ReturnType,
		LineItems:      lineItems,
		TotalPayable:   request.TotalPayable,
	})
	if err != nil {
		writeJSONError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitReturnResponse{
		Message:     "Return submitted successfully",
		ReturnID:    record.ID,
		SubmittedAt: record.SubmittedAt,
	})
}

func (s *Server) handleListReturns(w http.ResponseWriter, r *http.Request) {
	dealer, _ := requestctx.DealerFromContext(r.Context())
	records, err := s.filing.ListReturns(r.Context(), dealer.PTIN)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	payload := make([]returnPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, toReturnPayload(record))
	}
	writeJSON(w, http.StatusOK, listReturnsResponse{
		Message: "Returns retrieved successfully",
		Returns: payload,
		Count:   len(payload),
	})
}

func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	var request submitPaymentRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodePaymentMissingFields, "Missing required fields"))
		return
	}

	intent, err := s.filing.SubmitPayment(r.Context(), storage.PaymentIntent{
		PTIN:          request.PTIN,
		Name:          request.Name,
		TaxType:       request.TaxType,
		Purpose:       request.Purpose,
		TaxPeriodFrom: request.TaxPeriodFrom,
		TaxPeriodTo:   request.TaxPeriodTo,
		Amount:        request.Amount,
		Remarks:       request.Remarks,
		Date:          request.Date,
	})
	if err != nil {
		writeJSONError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitPaymentResponse{
		Message:          "Payment submitted successfully",
		PaymentID:        intent.ID,
		CTDTransactionID: intent.SettlementID,
		SubmittedAt:      intent.SubmittedAt,
	})
}

func (s *Server) handleValidateBankAccount(w http.ResponseWriter, r *http.Request) {
	var request validateBankRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeBankAuthFailed,
			"Invalid banking credentials. Please check your account holder name and password."))
		return
	}

	result, err := s.bank.Authenticate(r.Context(), bank.AuthInput{
		BankName:  request.BankName,
		Holder:    request.Username,
		Password:  request.Password,
		ChallanNo: request.ChallanNo,
		DDOCode:   request.DDOCode,
		HOA:       request.HOA,
		Amount:    request.PaymentData.Amount,
	})
	if err != nil {
		writeJSONError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validateBankResponse{
		Valid:   true,
		Message: "Bank authentication successful",
		BankDetails: bankDetailsPayload{
			BankName:      result.BankName,
			AccountNumber: result.AccountNumber,
			AccountHolder: result.AccountHolder,
		},
		BankRef: result.BankRef,
		TransactionDetails: transactionContextPayload{
			ChallanNo: result.ChallanNo,
			DDOCode:   result.DDOCode,
			HOA:       result.HOA,
			Amount:    result.Amount,
			Timestamp: result.Timestamp,
		},
	})
}

func (s *Server) handleStoreTransactionSuccess(w http.ResponseWriter, r *http.Request) {
	var request storeTransactionRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSONError(w, apperrors.New(apperrors.CodeSettlementMissingFields, "Missing required transaction fields"))
		return
	}

	// A malformed bank timestamp is not worth failing the settlement over;
	// the engine substitutes its own clock for a zero value.
	bankTimestamp, _ := time.Parse(time.RFC3339, request.BankTimestamp)

	record, err := s.settlement.Finalize(r.Context(), settlement.FinalizeInput{
		PTIN:          request.PTIN,
		Name:          request.Name,
		TaxType:       request.TaxType,
		Purpose:       request.Purpose,
		TaxPeriodFrom: request.TaxPeriodFrom,
		TaxPeriodTo:   request.TaxPeriodTo,
		Amount:        request.Amount,
		Remarks:       request.Remarks,
		Date:          request.Date,
		BankName:      request.BankName,
		AccountNumber: request.AccountNumber,
		AccountHolder: request.AccountHolder,
		ChallanNo:     request.ChallanNo,
		DDOCode:       request.DDOCode,
		HOA:           request.HOA,
		BankRef:       request.BankRef,
		EPaymentRef:   request.ETaxPaymentReference,
		PaymentID:     request.PaymentID,
		BankTimestamp: bankTimestamp,
	})
	if err != nil {
		writeJSONError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, storeTransactionResponse{
		Message:       "Transaction success stored successfully",
		TransactionID: record.ID,
		CRN:           record.CRN,
		CompletedAt:   record.CompletedAt,
	})
}

func (s *Server) handleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	dealer, _ := requestctx.DealerFromContext(r.Context())
	records, err := s.filing.ListTransactions(r.Context(), dealer.PTIN)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	payload := make([]transactionPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, toTransactionPayload(record))
	}
	writeJSON(w, http.StatusOK, transactionHistoryResponse{
		Message:      "Transaction history retrieved successfully",
		Transactions: payload,
		Count:        len(payload),
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	record, err := s.filing.GetTransaction(r.Context(), r.PathValue("transactionId"))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionResponse{
		Message:     "Transaction retrieved successfully",
		Transaction: toTransactionPayload(record),
	})
}
