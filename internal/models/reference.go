package models

// Reference data forms a strict three-level hierarchy:
// Province → Direction → Branch. Parent deletes are blocked while
// children exist.

// Province is the top level of the reference hierarchy.
type Province struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Direction is a provincial labor direction.
type Direction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProvinceID string `json:"province_id"`
	Address    string `json:"address"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Branch is a local office under a direction.
type Branch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DirectionID string `json:"direction_id"`
	Address     string `json:"address"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ProvinceRequest creates or renames a province.
type ProvinceRequest struct {
	Name string `json:"name"`
}

func (r *ProvinceRequest) Validate() map[string]string {
	errors := map[string]string{}
	if r.Name == "" {
		errors["name"] = "Province name is required"
	}
	return errors
}

// DirectionRequest creates or updates a direction.
type DirectionRequest struct {
	Name       string `json:"name"`
	ProvinceID string `json:"province_id"`
	Address    string `json:"address"`
}

func (r *DirectionRequest) Validate() map[string]string {
	errors := map[string]string{}
	if r.Name == "" {
		errors["name"] = "Direction name is required"
	}
	if r.ProvinceID == "" {
		errors["province_id"] = "A parent province is required"
	}
	return errors
}

// BranchRequest creates or updates a branch.
type BranchRequest struct {
	Name        string `json:"name"`
	DirectionID string `json:"direction_id"`
	Address     string `json:"address"`
}

func (r *BranchRequest) Validate() map[string]string {
	errors := map[string]string{}
	if r.Name == "" {
		errors["name"] = "Branch name is required"
	}
	if r.DirectionID == "" {
		errors["direction_id"] = "A parent direction is required"
	}
	return errors
}
