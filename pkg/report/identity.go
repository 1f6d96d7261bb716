package report

// Identity is the company block printed in report headers and emails.
type Identity struct {
	CompanyName string
	Tagline     string
	Email       string
	Phone       string
	Address     string
	Website     string
}

var DefaultIdentity = Identity{
	CompanyName: "BreachSignal.io",
	Tagline:     "Your Early Warning System for Digital Threats.",
	Email:       "info@BreachSignal.io",
	Phone:       "(555) 123-4567",
	Address:     "1234 Security Ave, Suite 100, Cyber City, USA",
	Website:     "www.breachsignal.io",
}

// ContactLine joins the contact details on one line.
func (i Identity) ContactLine() string {
	return i.Email + " | " + i.Phone + " | " + i.Address + " | " + i.Website
}
