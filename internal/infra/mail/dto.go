package mail

type LeadAlertData struct {
	LeadID      string
	Name        string
	Phone       string
	Email       string
	Suburbs     string
	BudgetRange string
	Timeline    string
	SourceURL   string
	CapturedAt  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
