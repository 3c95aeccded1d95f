package directory

// dealerFixture carries one Annexure 1 dealer entry with its plaintext
// portal password. The plaintext only exists here; NewStatic hashes it
// before any lookup can observe it.
type dealerFixture struct {
	Dealer
	password string
}

// bankFixture carries one Annexure 2 bank account entry with its plaintext
// banking password.
type bankFixture struct {
	BankAccount
	password string
}

var dealerFixtures = []dealerFixture{
	{Dealer{PTIN: "36123456001", Name: "Suhani pvt ltd.", Division: "L B Nagar", Circle: "Uppal"}, "User@001"},
	{Dealer{PTIN: "36123456002", Name: "Hindustan Packages pvt.ltd", Division: "L B Nagar", Circle: "Uppal"}, "User@002"},
	{Dealer{PTIN: "36123456003", Name: "Ayush pvt. Ltd.", Division: "L B Nagar", Circle: "Uppal"}, "User@003"},
	{Dealer{PTIN: "36123456004", Name: "Shrishti Electromech pvt ltd", Division: "L B Nagar", Circle: "Uppal"}, "User@004"},
	{Dealer{PTIN: "36123456005", Name: "Jaguar Solutions Pvt .ltd", Division: "Secunderabad Zone", Circle: "Begumpet"}, "User@005"},
	{Dealer{PTIN: "36123456006", Name: "Dayalan pvt ltd", Division: "Secunderabad Zone", Circle: "Begumpet"}, "User@006"},
	{Dealer{PTIN: "36123456007", Name: "Hindorson pvt ltd", Division: "Secunderabad Zone", Circle: "Begumpet"}, "User@007"},
	{Dealer{PTIN: "36123456008", Name: "Lekhya pvt ltd", Division: "Secunderabad Zone", Circle: "Begumpet"}, "User@008"},
	{Dealer{PTIN: "36123456009", Name: "I.N Roy pvt ltd", Division: "Khairatabad Zone", Circle: "Jubilee hills"}, "User@009"},
	{Dealer{PTIN: "36123456010", Name: "Dayakar pvt ltd", Division: "Khairatabad Zone", Circle: "Jublie hills"}, "User@010"},
	{Dealer{PTIN: "36123456011", Name: "Hinduja pvt ltd", Division: "Khairatabad Zone", Circle: "Jublie hills"}, "User@011"},
	{Dealer{PTIN: "36123456012", Name: "G V R pvt ltd", Division: "Kukatpally Zone", Circle: "Moosapet"}, "User@012"},
	{Dealer{PTIN: "36123456013", Name: "Wol 3D India pvt ltd", Division: "Kukatpally Zone", Circle: "Moosapet"}, "User@013"},
	{Dealer{PTIN: "36123456014", Name: "Karthik pvt ltd", Division: "Kukatpally Zone", Circle: "Moosapet"}, "User@014"},
	{Dealer{PTIN: "36123456015", Name: "Godrej pvt ltd", Division: "Kukatpally Zone", Circle: "Moosapet"}, "User@015"},
}

var bankFixtures = []bankFixture{
	{BankAccount{Bank: "State Bank of India", AccountNo: "6785 4367 3593 5479", Holder: "Raman Kumar"}, "Sinha@897"},
	{BankAccount{Bank: "Bank of Baroda", AccountNo: "6433 3489 2795 6839", Holder: "Prasad Shetty"}, "Shetty_585"},
	{BankAccount{Bank: "Punjab National Bank", AccountNo: "4638 5467 5389 5346", Holder: "Vinod Kumar"}, "Kumar$999"},
	{BankAccount{Bank: "Axis Bank", AccountNo: "5643 7532 7567 4568", Holder: "Shrishti"}, "Shrishti*765"},
}
