// Package domain defines the deployment record written when a custody stack is bootstrapped.
package domain

import (
	"time"

	"github.com/allisson/securevault/internal/errors"
)

// ErrRecordPathRequired indicates the deployment has nowhere to write its record.
var ErrRecordPathRequired = errors.Wrap(errors.ErrInvalidInput, "deployment record path is required")

// DeploymentRecord identifies the components of one deployment.
type DeploymentRecord struct {
	Network              string    `json:"network"`
	AuthorizationManager string    `json:"authorizationManager"`
	Vault                string    `json:"vault"`
	Timestamp            time.Time `json:"timestamp"`
}

// DeployInput contains the parameters of a deployment.
type DeployInput struct {
	Network         string
	ManagerName     string
	SignerPublicKey []byte
	RecordPath      string
}

// DeployOutput is returned once after a successful deployment.
// AdminSecret is the vault admin secret and cannot be retrieved again.
type DeployOutput struct {
	Record      *DeploymentRecord
	RecordPath  string
	AdminSecret string
}
