package differ

import (
	"fmt"

	"github.com/erraggy/apidiff/document"
)

func checkRequestFieldAdded(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, op := range ctx.CommonOperations {
		newSchema := requestSchema(op.New)
		if newSchema == nil || newSchema.Type != "object" {
			continue
		}
		oldSchema := requestSchema(op.Old)
		for _, field := range requiredSet(newSchema) {
			if oldSchema.IsRequired(field) {
				continue
			}
			ev := breaking(RuleRequestFieldAdded, fmt.Sprintf(
				"required field '%s' added to request body for %s (%s)",
				field, op.EndpointKey, document.MediaTypeJSON))
			ev.Operation = op.Ref()
			ev.Location = &Location{
				Area:        AreaRequestBody,
				ContentType: document.MediaTypeJSON,
				JSONPointer: requestPropertyPointer(op.EndpointKey, field),
			}
			ev.Details = map[string]any{DetailField: field}
			events = append(events, ev)
		}
	}
	return events
}

func checkRequestFieldTypeChanged(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, op := range ctx.CommonOperations {
		oldSchema := requestSchema(op.Old)
		newSchema := requestSchema(op.New)
		if oldSchema == nil || newSchema == nil {
			continue
		}
		for _, field := range propertyNames(oldSchema) {
			newProp, ok := property(newSchema, field)
			if !ok {
				continue
			}
			oldType, newType := typeOf(oldSchema.Properties[field]), typeOf(newProp)
			if oldType == newType {
				continue
			}
			ev := breaking(RuleRequestFieldTypeChanged, fmt.Sprintf(
				"%s request field '%s' changed type from %s to %s",
				op.EndpointKey, field, document.TypeString(oldType), document.TypeString(newType)))
			ev.Operation = op.Ref()
			ev.Location = &Location{
				Area:        AreaRequestBody,
				ContentType: document.MediaTypeJSON,
				JSONPointer: requestPropertyPointer(op.EndpointKey, field, "type"),
			}
			ev.Details = map[string]any{
				DetailField:   field,
				DetailOldType: document.TypeString(oldType),
				DetailNewType: document.TypeString(newType),
			}
			events = append(events, ev)
		}
	}
	return events
}

func checkRequestEnumValueRemoved(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, op := range ctx.CommonOperations {
		oldSchema := requestSchema(op.Old)
		newSchema := requestSchema(op.New)
		if oldSchema == nil || newSchema == nil {
			continue
		}
		for _, field := range propertyNames(oldSchema) {
			oldProp := oldSchema.Properties[field]
			newProp, ok := property(newSchema, field)
			if !ok || oldProp == nil || len(oldProp.Enum) == 0 {
				continue
			}
			var newEnum []*string
			if newProp != nil {
				newEnum = newProp.Enum
			}
			for _, literal := range distinctLiterals(oldProp.Enum) {
				if containsLiteral(newEnum, literal) {
					continue
				}
				ev := breaking(RuleRequestEnumValueRemoved, fmt.Sprintf(
					"%s request field '%s' removed enum value '%s'",
					op.EndpointKey, field, document.LiteralString(literal)))
				ev.Operation = op.Ref()
				ev.Location = &Location{
					Area:        AreaRequestBody,
					ContentType: document.MediaTypeJSON,
					JSONPointer: requestPropertyPointer(op.EndpointKey, field, "enum"),
				}
				ev.Details = map[string]any{
					DetailField:        field,
					DetailRemovedValue: literalValue(literal),
				}
				events = append(events, ev)
			}
		}
	}
	return events
}

func checkResponseFieldChanged(ctx *Context) []DiffEvent {
	var events []DiffEvent
	for _, op := range ctx.CommonOperations {
		oldResp := successResponse(op.Old)
		oldSchema := oldResp.JSONSchema()
		newSchema := successResponse(op.New).JSONSchema()
		if oldSchema == nil || len(oldSchema.Properties) == 0 || newSchema == nil {
			continue
		}
		for _, field := range propertyNames(oldSchema) {
			loc := &Location{
				Area:        AreaResponses,
				ContentType: document.MediaTypeJSON,
				JSONPointer: responsePropertyPointer(op.EndpointKey, oldResp.StatusCode, field),
			}
			newProp, ok := property(newSchema, field)
			if !ok {
				ev := breaking(RuleResponseFieldRemoved, fmt.Sprintf(
					"%s response removed field '%s'", op.EndpointKey, field))
				ev.Operation = op.Ref()
				ev.Location = loc
				ev.Details = map[string]any{
					DetailField:      field,
					DetailStatusCode: oldResp.StatusCode,
				}
				events = append(events, ev)
				continue
			}
			oldType, newType := typeOf(oldSchema.Properties[field]), typeOf(newProp)
			if oldType == newType {
				continue
			}
			ev := breaking(RuleResponseFieldTypeChanged, fmt.Sprintf(
				"%s response field '%s' changed type from %s to %s",
				op.EndpointKey, field, document.TypeString(oldType), document.TypeString(newType)))
			ev.Operation = op.Ref()
			ev.Location = loc
			ev.Details = map[string]any{
				DetailField:      field,
				DetailOldType:    document.TypeString(oldType),
				DetailNewType:    document.TypeString(newType),
				DetailStatusCode: oldResp.StatusCode,
			}
			events = append(events, ev)
		}
	}
	return events
}
