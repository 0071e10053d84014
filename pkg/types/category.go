package types

type Category struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	ParentID string     `json:"parentId,omitempty"`
	Gender   string     `json:"gender,omitempty"`
	Children []Category `json:"children,omitempty"`
}
