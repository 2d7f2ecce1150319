package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cse341/records-api/internal/core/domain"
)

// codeDocumentValidationFailure is returned by the server when a write
// violates the collection's $jsonSchema validator.
const codeDocumentValidationFailure = 121

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// writeError translates driver write failures into domain errors. A
// duplicate-key failure maps to onDuplicate when it is non-nil.
func writeError(op string, err error, onDuplicate error) error {
	if onDuplicate != nil && mongo.IsDuplicateKeyError(err) {
		return onDuplicate
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure) {
		return &domain.SchemaError{Fields: schemaViolationFields(err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// schemaViolationFields extracts property names from the errInfo document the
// server attaches to a validation failure.
func schemaViolationFields(err error) []string {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return nil
	}

	var fields []string
	for _, e := range we.WriteErrors {
		if e.Details == nil {
			continue
		}
		rules, ok := e.Details.Lookup("details", "schemaRulesNotSatisfied").ArrayOK()
		if !ok {
			continue
		}
		values, _ := rules.Values()
		for _, v := range values {
			rule, ok := v.DocumentOK()
			if !ok {
				continue
			}
			fields = append(fields, ruleFields(rule)...)
		}
	}
	return fields
}

func ruleFields(rule bson.Raw) []string {
	var fields []string
	if missing, ok := rule.Lookup("missingProperties").ArrayOK(); ok {
		values, _ := missing.Values()
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				fields = append(fields, s)
			}
		}
	}
	if props, ok := rule.Lookup("propertiesNotSatisfied").ArrayOK(); ok {
		values, _ := props.Values()
		for _, v := range values {
			if doc, ok := v.DocumentOK(); ok {
				if name, ok := doc.Lookup("propertyName").StringValueOK(); ok {
					fields = append(fields, name)
				}
			}
		}
	}
	return fields
}
