package export

import (
	"github.com/dgallion1/cirgest/internal/bureau"
)

func sampleBatch() bureau.Batch {
	return bureau.Batch{Documents: []bureau.DocumentResult{
		{
			SourceID: "john.pdf",
			Summary:  bureau.Summary{CustomerName: "JOHN DOE", Score: "750", ReportDate: "01-02-2023", BorrowerType: bureau.Applicant},
			Records: []bureau.AccountRecord{
				{
					SerialNo: 1, BorrowerType: bureau.Applicant, Borrower: "JOHN DOE",
					LoanType: "PERSONAL LOAN", SanctionDate: "05/01/2020",
					SanctionedAmount: "100,000", MonthlyEMI: "5,000", CurrentOutstanding: "40,000",
					Status: bureau.StatusActive, MaxDPD12: 0, MaxDPD36: 30, Ownership: "INDIVIDUAL",
				},
				{
					SerialNo: 2, BorrowerType: bureau.Applicant, Borrower: "JOHN DOE",
					LoanType: "CREDIT CARD", SanctionDate: "10/10/2018",
					SanctionedAmount: "50,000", CurrentOutstanding: "-1,250",
					Status: bureau.StatusClosed, Ownership: "INDIVIDUAL",
				},
			},
		},
		{
			SourceID: "jane.txt",
			Summary:  bureau.Summary{CustomerName: bureau.Unknown, Score: bureau.NoScore, ReportDate: bureau.Unknown, BorrowerType: bureau.CoApplicant},
		},
		{
			SourceID: "john-again.pdf",
			Summary:  bureau.Summary{CustomerName: "JOHN DOE", Score: "748", ReportDate: "01-03-2023", BorrowerType: bureau.Applicant},
			Records: []bureau.AccountRecord{
				{
					SerialNo: 1, BorrowerType: bureau.Applicant, Borrower: "JOHN DOE",
					LoanType: "GOLD LOAN", SanctionedAmount: "n/a",
					Status: bureau.StatusActive, Ownership: "JOINT",
				},
			},
		},
	}}
}
