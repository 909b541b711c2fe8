package model

// Datafeed is a logical data stream stored under its own key prefix
type Datafeed struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// ComputeFunction is a Lambda function attributed to exactly one datafeed
type ComputeFunction struct {
	Name     string `json:"name"`
	Datafeed string `json:"datafeed"`
}

// AccountInfo represents the AWS account the monitor is running against
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}
