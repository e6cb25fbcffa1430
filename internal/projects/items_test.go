package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	draftNode    = `{"id":"PVTI_draft","type":"DRAFT_ISSUE","content":{"__typename":"DraftIssue","id":"DI_1","title":"Draft","body":"Draft body"}}`
	issueNode    = `{"id":"PVTI_issue","type":"ISSUE","content":{"__typename":"Issue","id":"I_1","title":"Issue","body":"Issue body","url":"https://github.com/x/y/issues/1"}}`
	pullNode     = `{"id":"PVTI_pull","type":"PULL_REQUEST","content":{"__typename":"PullRequest","id":"PR_2","title":"Pull","body":"Pull body","url":"https://github.com/x/y/pull/2"}}`
	redactedNode = `{"id":"PVTI_redacted","type":"REDACTED","content":null}`
)

func itemsResponse(hasNext bool, cursor string, nodes ...string) string {
	joined := ""
	for i, n := range nodes {
		if i > 0 {
			joined += ","
		}
		joined += n
	}
	next := "false"
	if hasNext {
		next = "true"
	}
	return `{"projectV2":{"id":"PVT_kwDOAM","items":{"nodes":[` + joined + `],"pageInfo":{"hasNextPage":` + next + `,"endCursor":"` + cursor + `"}}}}`
}

func itemsWithFieldResponse(field string, hasNext bool, nodes ...string) string {
	resp := itemsResponse(hasNext, "c1", nodes...)
	return `{"projectV2":{"id":"PVT_kwDOAM","field":` + field + `,` + resp[len(`{"projectV2":{"id":"PVT_kwDOAM",`):]
}

func TestGetItem_PullRequestByURL(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{out: projectView}}}
	gql := &fakeQuerier{responses: []string{itemsResponse(false, "c1", draftNode, pullNode)}}
	svc := newTestService(cli, gql)

	item, err := svc.GetItem(context.Background(), "dsanders11", "94", "https://github.com/x/y/pull/2", "")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, &domain.Item{
		ID:        "PVTI_pull",
		ProjectID: "PVT_kwDOAM",
		Type:      domain.ItemTypePullRequest,
		Content: &domain.Content{
			ID:    "PR_2",
			Title: "Pull",
			Body:  "Pull body",
			URL:   "https://github.com/x/y/pull/2",
		},
	}, item)
	assert.Nil(t, item.Field)

	require.Len(t, cli.calls, 1)
	assert.Equal(t, []string{"project", "view", "94", "--owner", "dsanders11", "--format", "json"}, cli.calls[0])
	require.Len(t, gql.calls, 1)
	assert.Equal(t, "PVT_kwDOAM", gql.calls[0].vars["projectId"])
	assert.NotContains(t, gql.calls[0].vars, "field")
}

func TestGetItem_MatchesIDAndContentID(t *testing.T) {
	for _, identifier := range []string{"PVTI_draft", "DI_1"} {
		t.Run(identifier, func(t *testing.T) {
			cli := &fakeRunner{results: []cliResult{{out: projectView}}}
			gql := &fakeQuerier{responses: []string{itemsResponse(false, "c1", issueNode, draftNode)}}

			item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", identifier, "")
			require.NoError(t, err)
			require.NotNil(t, item)
			assert.Equal(t, "PVTI_draft", item.ID)
			assert.True(t, item.IsDraftIssue())
			assert.Empty(t, item.Content.URL)
		})
	}
}

func TestGetItem_EarlyExit(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{out: projectView}}}
	gql := &fakeQuerier{responses: []string{
		itemsResponse(true, "c1", draftNode),
		itemsResponse(true, "c2", issueNode),
		itemsResponse(false, "c3", pullNode),
	}}

	item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "I_1", "")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "PVTI_issue", item.ID)

	require.Len(t, gql.calls, 2)
	assert.Equal(t, "c1", gql.calls[1].vars["cursor"])
}

func TestGetItem_NoMatch(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{out: projectView}}}
	gql := &fakeQuerier{responses: []string{
		itemsResponse(true, "c1", draftNode),
		itemsResponse(false, "c2", issueNode),
	}}

	item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "PVTI_missing", "")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Len(t, gql.calls, 2)
}

func TestGetItem_DraftIssueURLNeverMatches(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{out: projectView}}}
	draftWithURL := `{"id":"PVTI_d","type":"DRAFT_ISSUE","content":{"__typename":"DraftIssue","id":"DI_2","title":"t","body":"b","url":"https://github.com/x/y/issues/9"}}`
	gql := &fakeQuerier{responses: []string{itemsResponse(false, "c1", draftWithURL)}}

	item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "https://github.com/x/y/issues/9", "")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestGetItem_ProjectNotFound(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{err: errors.New("Could not resolve to a ProjectV2 with the number 94.")}}}
	gql := &fakeQuerier{}

	_, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "PVTI_draft", "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Empty(t, gql.calls)
}

func TestGetItem_PageErrorClassifiedOnce(t *testing.T) {
	cli := &fakeRunner{results: []cliResult{{out: projectView}}}
	gql := &fakeQuerier{
		responses: []string{itemsResponse(true, "c1", draftNode)},
		errs:      map[int]error{1: notFoundResponse("projectV2")},
	}

	_, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "PVTI_missing", "")
	require.ErrorIs(t, err, ErrProjectNotFound)
	assert.Len(t, gql.calls, 2)

	// A single layer of classification wraps the response error.
	unwrapped, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, unwrapped.Unwrap(), 2)
}

func TestGetItem_WithField(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: projectView}}}
		node := `{"id":"PVTI_issue","type":"ISSUE","fieldValueByName":{"number":3.5},"content":{"__typename":"Issue","id":"I_1","title":"Issue","body":"","url":"https://github.com/x/y/issues/1"}}`
		gql := &fakeQuerier{responses: []string{itemsWithFieldResponse(`{"id":"PVTF_points"}`, false, node)}}

		item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "I_1", "Points")
		require.NoError(t, err)
		require.NotNil(t, item.Field)
		assert.Equal(t, "PVTF_points", item.Field.ID)
		assert.Equal(t, 3.5, item.Field.Value)
		assert.Equal(t, "Points", gql.calls[0].vars["field"])
	})

	t.Run("unset value", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: projectView}}}
		node := `{"id":"PVTI_draft","type":"DRAFT_ISSUE","fieldValueByName":null,"content":{"__typename":"DraftIssue","id":"DI_1","title":"Draft","body":""}}`
		gql := &fakeQuerier{responses: []string{itemsWithFieldResponse(`{"id":"PVTF_status"}`, false, node)}}

		item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "DI_1", "Status")
		require.NoError(t, err)
		require.NotNil(t, item.Field)
		assert.Equal(t, "PVTF_status", item.Field.ID)
		assert.Nil(t, item.Field.Value)
	})

	t.Run("field missing on project", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: projectView}}}
		gql := &fakeQuerier{responses: []string{itemsWithFieldResponse(`null`, false, draftNode)}}

		_, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "DI_1", "Nope")
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("field NOT_FOUND", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: projectView}}}
		gql := &fakeQuerier{errs: map[int]error{0: notFoundResponse("projectV2", "field")}}

		_, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "DI_1", "Nope")
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("redacted item carries no field", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: projectView}}}
		gql := &fakeQuerier{responses: []string{itemsWithFieldResponse(`{"id":"PVTF_status"}`, false, redactedNode)}}

		item, err := newTestService(cli, gql).GetItem(context.Background(), "dsanders11", "94", "PVTI_redacted", "Status")
		require.NoError(t, err)
		assert.Equal(t, domain.ItemTypeRedacted, item.Type)
		assert.Nil(t, item.Content)
		assert.Nil(t, item.Field)
	})
}

func TestListItems_SkipsContentless(t *testing.T) {
	empty := `{"id":"PVTI_empty","type":"ISSUE","content":{}}`
	gql := &fakeQuerier{responses: []string{
		itemsResponse(true, "c1", draftNode, redactedNode),
		itemsResponse(false, "c2", empty, issueNode, pullNode),
	}}

	items, err := newTestService(nil, gql).ListItems(context.Background(), "PVT_kwDOAM")
	require.NoError(t, err)

	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
		assert.Equal(t, "PVT_kwDOAM", item.ProjectID)
	}
	assert.Equal(t, []string{"PVTI_draft", "PVTI_issue", "PVTI_pull"}, ids)
	assert.Len(t, gql.calls, 2)
}

func TestListDraftIssues(t *testing.T) {
	pages := []string{
		itemsResponse(true, "c1", draftNode, issueNode),
		itemsResponse(false, "c2", redactedNode, `{"id":"PVTI_draft2","type":"DRAFT_ISSUE","content":{"__typename":"DraftIssue","id":"DI_2","title":"Second","body":""}}`),
	}
	gql := &fakeQuerier{responses: append(append([]string{}, pages...), pages...)}
	svc := newTestService(nil, gql)

	first, err := svc.ListDraftIssues(context.Background(), "PVT_kwDOAM")
	require.NoError(t, err)
	second, err := svc.ListDraftIssues(context.Background(), "PVT_kwDOAM")
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, "DI_1", first[0].Content.ID)
	assert.Equal(t, "DI_2", first[1].Content.ID)
	assert.Equal(t, first, second)
}

func TestListDraftIssues_ProjectNotFound(t *testing.T) {
	gql := &fakeQuerier{errs: map[int]error{0: notFoundResponse("projectV2", "items")}}

	_, err := newTestService(nil, gql).ListDraftIssues(context.Background(), "PVT_missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestItemMutations(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: `{"id":"PVTI_new","title":"x"}`}}}
		id, err := newTestService(cli, nil).AddItem(context.Background(), "dsanders11", "94", "https://github.com/x/y/pull/2")
		require.NoError(t, err)
		assert.Equal(t, "PVTI_new", id)
		assert.Equal(t, []string{
			"project", "item-add", "94", "--owner", "dsanders11",
			"--url", "https://github.com/x/y/pull/2", "--format", "json",
		}, cli.calls[0])
	})

	t.Run("archive", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{out: "{}"}, {out: "{}"}}}
		svc := newTestService(cli, nil)
		require.NoError(t, svc.ArchiveItem(context.Background(), "dsanders11", "94", "PVTI_1", true))
		require.NoError(t, svc.ArchiveItem(context.Background(), "dsanders11", "94", "PVTI_1", false))
		assert.Equal(t, []string{"project", "item-archive", "94", "--owner", "dsanders11", "--id", "PVTI_1"}, cli.calls[0])
		assert.Equal(t, "--undo", cli.calls[1][len(cli.calls[1])-1])
	})

	t.Run("delete project not found", func(t *testing.T) {
		cli := &fakeRunner{results: []cliResult{{err: errors.New("Could not resolve to a ProjectV2 with the number 94.")}}}
		err := newTestService(cli, nil).DeleteItem(context.Background(), "dsanders11", "94", "PVTI_1")
		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.Equal(t, []string{"project", "item-delete", "94", "--owner", "dsanders11", "--id", "PVTI_1"}, cli.calls[0])
	})
}
