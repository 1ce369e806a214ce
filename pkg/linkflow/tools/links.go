package tools

import (
	"encoding/json"

	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
)

type createLinkArgs struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	AnimationType string `json:"animation_type"`
	Highlight     bool   `json:"highlight"`
}

type updateLinkArgs struct {
	ID            string  `json:"id"`
	Title         *string `json:"title"`
	URL           *string `json:"url"`
	Description   *string `json:"description"`
	Type          *string `json:"type"`
	AnimationType *string `json:"animation_type"`
	Highlight     *bool   `json:"highlight"`
	Enabled       *bool   `json:"enabled"`
}

type deleteLinkArgs struct {
	ID string `json:"id"`
}

type reorderLinksArgs struct {
	Links []links.PositionAssignment `json:"links"`
}

func (r *Registry) registerLinkTools(service *links.Service) {
	r.register(Tool{
		Name:        "list_links",
		Description: "List the current user's links in display order",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			return service.List(ownerID)
		},
	})

	r.register(Tool{
		Name:        "create_link",
		Description: "Add a new link at the end of the user's page",
		InputSchema: json.RawMessage(`{"type":"object","properties":{
			"title":{"type":"string","description":"Link title"},
			"url":{"type":"string","description":"Destination URL"},
			"description":{"type":"string"},
			"type":{"type":"string","description":"link | youtube | spotify | social"},
			"animation_type":{"type":"string","description":"bounce | pulse | none"},
			"highlight":{"type":"boolean"}
		},"required":["title","url"]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var in createLinkArgs
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return service.Create(ownerID, links.CreateInput{
				Title:         in.Title,
				URL:           in.URL,
				Description:   in.Description,
				Type:          in.Type,
				AnimationType: in.AnimationType,
				Highlight:     in.Highlight,
			})
		},
	})

	r.register(Tool{
		Name:        "update_link",
		Description: "Update fields of an existing link; omitted fields are untouched",
		InputSchema: json.RawMessage(`{"type":"object","properties":{
			"id":{"type":"string","description":"Link ID"},
			"title":{"type":"string"},
			"url":{"type":"string"},
			"description":{"type":"string"},
			"type":{"type":"string"},
			"animation_type":{"type":"string"},
			"highlight":{"type":"boolean"},
			"enabled":{"type":"boolean"}
		},"required":["id"]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var in updateLinkArgs
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			if in.ID == "" {
				return nil, &links.ValidationError{Message: "id is required"}
			}
			return service.Update(ownerID, in.ID, links.UpdatePatch{
				Title:         in.Title,
				URL:           in.URL,
				Description:   in.Description,
				Type:          in.Type,
				AnimationType: in.AnimationType,
				Highlight:     in.Highlight,
				Enabled:       in.Enabled,
			})
		},
	})

	r.register(Tool{
		Name:        "delete_link",
		Description: "Delete a link; later links shift down to keep positions contiguous",
		InputSchema: json.RawMessage(`{"type":"object","properties":{
			"id":{"type":"string","description":"Link ID"}
		},"required":["id"]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var in deleteLinkArgs
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			if in.ID == "" {
				return nil, &links.ValidationError{Message: "id is required"}
			}
			if err := service.Delete(ownerID, in.ID); err != nil {
				return nil, err
			}
			return map[string]bool{"deleted": true}, nil
		},
	})

	r.register(Tool{
		Name:        "reorder_links",
		Description: "Atomically reassign positions across the user's links",
		InputSchema: json.RawMessage(`{"type":"object","properties":{
			"links":{"type":"array","description":"Array of {id, position}","items":{
				"type":"object",
				"properties":{"id":{"type":"string"},"position":{"type":"number"}},
				"required":["id","position"]
			}}
		},"required":["links"]}`),
		handler: func(ownerID string, args json.RawMessage) (interface{}, error) {
			var in reorderLinksArgs
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return service.Reorder(ownerID, in.Links)
		},
	})
}
