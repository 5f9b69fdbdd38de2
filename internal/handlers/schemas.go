// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "blogapi/internal/validate"

// Field length limits mirror the database column constraints.
var (
	registerSchema = validate.Schema{
		"name":     {Kind: validate.String, Required: true, MaxLen: 60},
		"email":    {Kind: validate.String, Required: true, Email: true},
		"password": {Kind: validate.String, Required: true, MinLen: 6},
		"bio":      {Kind: validate.String, MaxLen: 300, AllowEmpty: true},
	}

	loginSchema = validate.Schema{
		"email":    {Kind: validate.String, Required: true, Email: true},
		"password": {Kind: validate.String, Required: true},
	}

	postCreateSchema = validate.Schema{
		"title":         {Kind: validate.String, Required: true, MaxLen: 100},
		"content":       {Kind: validate.String, Required: true},
		"excerpt":       {Kind: validate.String, MaxLen: 200, AllowEmpty: true},
		"featuredImage": {Kind: validate.String, URL: true, AllowEmpty: true},
		"category":      {Kind: validate.ID, Required: true},
		"tags":          {Kind: validate.StringSlice, MaxLen: 30, Default: []string{}},
		"isPublished":   {Kind: validate.Bool, Default: false},
	}

	// Update payloads are partial: nothing is required, absent fields keep
	// their stored values.
	postUpdateSchema = validate.Schema{
		"title":         {Kind: validate.String, MaxLen: 100},
		"content":       {Kind: validate.String},
		"excerpt":       {Kind: validate.String, MaxLen: 200, AllowEmpty: true},
		"featuredImage": {Kind: validate.String, URL: true, AllowEmpty: true},
		"category":      {Kind: validate.ID},
		"tags":          {Kind: validate.StringSlice, MaxLen: 30},
		"isPublished":   {Kind: validate.Bool},
	}

	categoryCreateSchema = validate.Schema{
		"name":        {Kind: validate.String, Required: true, MaxLen: 50},
		"description": {Kind: validate.String, MaxLen: 200, AllowEmpty: true},
	}

	categoryUpdateSchema = validate.Schema{
		"name":        {Kind: validate.String, MaxLen: 50},
		"description": {Kind: validate.String, MaxLen: 200, AllowEmpty: true},
		"isActive":    {Kind: validate.Bool},
	}

	commentSchema = validate.Schema{
		"content": {Kind: validate.String, Required: true, MaxLen: 1000},
	}
)
