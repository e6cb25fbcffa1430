package projects

import (
	"github.com/dsanders11/project-actions/internal/gh"
)

// contentFragment selects the content of every item variant.
const contentFragment = `
	content {
		__typename
		... on DraftIssue {
			id
			body
			title
		}
		... on Issue {
			id
			url
			body
			title
		}
		... on PullRequest {
			id
			url
			body
			title
		}
	}`

const projectItemsQuery = `
	query paginate($cursor: String, $projectId: ID!) {
		projectV2: node(id: $projectId) {
			... on ProjectV2 {
				id
				items(first: 50, after: $cursor) {
					nodes {
						id
						type
						` + contentFragment + `
					}
					pageInfo {
						hasNextPage
						endCursor
					}
				}
			}
		}
	}
`

const projectItemsWithFieldQuery = `
	query paginate($cursor: String, $projectId: ID!, $field: String!) {
		projectV2: node(id: $projectId) {
			... on ProjectV2 {
				id
				field(name: $field) {
					... on ProjectV2FieldCommon {
						id
					}
				}
				items(first: 50, after: $cursor) {
					nodes {
						id
						type
						fieldValueByName(name: $field) {
							... on ProjectV2ItemFieldDateValue {
								date
							}
							... on ProjectV2ItemFieldTextValue {
								text
							}
							... on ProjectV2ItemFieldNumberValue {
								number
							}
							... on ProjectV2ItemFieldSingleSelectValue {
								singleSelectValue: name
							}
						}
						` + contentFragment + `
					}
					pageInfo {
						hasNextPage
						endCursor
					}
				}
			}
		}
	}
`

const fieldTypeQuery = `
	query ($id: ID!, $field: String!) {
		projectV2Item: node(id: $id) {
			... on ProjectV2Item {
				project {
					field(name: $field) {
						... on ProjectV2FieldCommon {
							id
							dataType
						}
					}
				}
			}
		}
	}
`

const singleSelectOptionQuery = `
	query ($projectId: ID!, $field: String!, $name: String!) {
		projectV2: node(id: $projectId) {
			... on ProjectV2 {
				field(name: $field) {
					... on ProjectV2SingleSelectField {
						options(names: [$name]) {
							id
						}
					}
				}
			}
		}
	}
`

const workflowQuery = `
	query ($projectId: ID!, $number: Int!) {
		projectV2: node(id: $projectId) {
			... on ProjectV2 {
				workflow(number: $number) {
					id
					name
					number
					enabled
				}
			}
		}
	}
`

const workflowsQuery = `
	query paginate($cursor: String, $projectId: ID!) {
		projectV2: node(id: $projectId) {
			... on ProjectV2 {
				workflows(first: 50, after: $cursor) {
					nodes {
						id
						name
						number
						enabled
					}
					pageInfo {
						hasNextPage
						endCursor
					}
				}
			}
		}
	}
`

const repositoryIDQuery = `
	query ($owner: String!, $name: String!) {
		repository(owner: $owner, name: $name) {
			id
		}
	}
`

const teamIDQuery = `
	query ($owner: String!, $name: String!) {
		organization(login: $owner) {
			team(slug: $name) {
				id
			}
		}
	}
`

// rawContent is the content union as returned by the API. A redacted item
// has null content; items the query's fragments do not cover decode as {}.
type rawContent struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	URL      string `json:"url"`
}

// rawFieldValue is the fieldValueByName union. At most one member is set.
type rawFieldValue struct {
	Date              *string  `json:"date"`
	Number            *float64 `json:"number"`
	Text              *string  `json:"text"`
	SingleSelectValue *string  `json:"singleSelectValue"`
}

type rawItem struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	FieldValueByName *rawFieldValue `json:"fieldValueByName"`
	Content          *rawContent    `json:"content"`
}

type fieldID struct {
	ID string `json:"id"`
}

type itemsPage struct {
	ProjectV2 *struct {
		ID    string   `json:"id"`
		Field *fieldID `json:"field"`
		Items struct {
			Nodes    []rawItem   `json:"nodes"`
			PageInfo gh.PageInfo `json:"pageInfo"`
		} `json:"items"`
	} `json:"projectV2"`
}

func itemsPageInfo(p *itemsPage) gh.PageInfo {
	if p.ProjectV2 == nil {
		return gh.PageInfo{}
	}
	return p.ProjectV2.Items.PageInfo
}

type fieldTypeResponse struct {
	ProjectV2Item *struct {
		Project *struct {
			Field *struct {
				ID       string `json:"id"`
				DataType string `json:"dataType"`
			} `json:"field"`
		} `json:"project"`
	} `json:"projectV2Item"`
}

type singleSelectOptionResponse struct {
	ProjectV2 *struct {
		Field *struct {
			Options []struct {
				ID string `json:"id"`
			} `json:"options"`
		} `json:"field"`
	} `json:"projectV2"`
}

type rawWorkflow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Number  int    `json:"number"`
	Enabled bool   `json:"enabled"`
}

type workflowResponse struct {
	ProjectV2 *struct {
		Workflow *rawWorkflow `json:"workflow"`
	} `json:"projectV2"`
}

type workflowsPage struct {
	ProjectV2 *struct {
		Workflows struct {
			Nodes    []rawWorkflow `json:"nodes"`
			PageInfo gh.PageInfo   `json:"pageInfo"`
		} `json:"workflows"`
	} `json:"projectV2"`
}

func workflowsPageInfo(p *workflowsPage) gh.PageInfo {
	if p.ProjectV2 == nil {
		return gh.PageInfo{}
	}
	return p.ProjectV2.Workflows.PageInfo
}

type repositoryIDResponse struct {
	Repository *struct {
		ID string `json:"id"`
	} `json:"repository"`
}

type teamIDResponse struct {
	Organization *struct {
		Team *struct {
			ID string `json:"id"`
		} `json:"team"`
	} `json:"organization"`
}
