package model

import "slices"

// RecyclingRule is the sorting guide entry for a category.
type RecyclingRule struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Instructions []string `json:"instructions"`
	WhatGoesIn   []string `json:"whatGoesIn"`
	WhatStaysOut []string `json:"whatStaysOut"`
	Tips         []string `json:"tips"`
}

// Clone returns a copy that shares no slices with r.
func (r RecyclingRule) Clone() RecyclingRule {
	r.Instructions = slices.Clone(r.Instructions)
	r.WhatGoesIn = slices.Clone(r.WhatGoesIn)
	r.WhatStaysOut = slices.Clone(r.WhatStaysOut)
	r.Tips = slices.Clone(r.Tips)
	return r
}

// NewRecyclingRule holds the fields a client may set when creating a rule.
type NewRecyclingRule struct {
	Category     string   `json:"category" validate:"required,oneof=plastic glass organic ewaste"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Instructions []string `json:"instructions" validate:"required,dive,required"`
	WhatGoesIn   []string `json:"whatGoesIn" validate:"required,dive,required"`
	WhatStaysOut []string `json:"whatStaysOut" validate:"omitempty,dive,required"`
	Tips         []string `json:"tips" validate:"omitempty,dive,required"`
}

// Validate checks the insertable rule.
func (n NewRecyclingRule) Validate() error {
	return check(n)
}

// Build materialises the stored record; absent optional lists stay nil.
func (n NewRecyclingRule) Build(id string) RecyclingRule {
	return RecyclingRule{
		ID:           id,
		Category:     n.Category,
		Title:        n.Title,
		Description:  n.Description,
		Instructions: slices.Clone(n.Instructions),
		WhatGoesIn:   slices.Clone(n.WhatGoesIn),
		WhatStaysOut: nilIfEmpty(n.WhatStaysOut),
		Tips:         nilIfEmpty(n.Tips),
	}
}

// RecyclingRulePatch lists the rule fields an update may replace.
type RecyclingRulePatch struct {
	Category     *string  `json:"category" validate:"omitempty,oneof=plastic glass organic ewaste"`
	Title        *string  `json:"title" validate:"omitempty,min=1"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	Instructions []string `json:"instructions" validate:"omitempty,dive,required"`
	WhatGoesIn   []string `json:"whatGoesIn" validate:"omitempty,dive,required"`
	WhatStaysOut []string `json:"whatStaysOut" validate:"omitempty,dive,required"`
	Tips         []string `json:"tips" validate:"omitempty,dive,required"`
}

// Validate checks every supplied field.
func (p RecyclingRulePatch) Validate() error {
	return check(p)
}

// Apply merges the supplied fields over r.
func (p RecyclingRulePatch) Apply(r RecyclingRule) RecyclingRule {
	r = r.Clone()
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Instructions != nil {
		r.Instructions = slices.Clone(p.Instructions)
	}
	if p.WhatGoesIn != nil {
		r.WhatGoesIn = slices.Clone(p.WhatGoesIn)
	}
	if p.WhatStaysOut != nil {
		r.WhatStaysOut = nilIfEmpty(p.WhatStaysOut)
	}
	if p.Tips != nil {
		r.Tips = nilIfEmpty(p.Tips)
	}
	return r
}

// RecyclingCenter is a drop-off location shown by the locator.
type RecyclingCenter struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	ZipCode       string   `json:"zipCode"`
	Phone         *string  `json:"phone"`
	Hours         string   `json:"hours"`
	AcceptedTypes []string `json:"acceptedTypes"`
	// Distance is never computed; it is kept so clients see a stable shape.
	Distance  *string `json:"distance"`
	Latitude  *string `json:"latitude"`
	Longitude *string `json:"longitude"`
}

// Clone returns a copy that shares no memory with c.
func (c RecyclingCenter) Clone() RecyclingCenter {
	c.Phone = cloneString(c.Phone)
	c.AcceptedTypes = slices.Clone(c.AcceptedTypes)
	c.Distance = cloneString(c.Distance)
	c.Latitude = cloneString(c.Latitude)
	c.Longitude = cloneString(c.Longitude)
	return c
}

// NearZip reports whether c is at zip or shares its three character prefix.
func (c RecyclingCenter) NearZip(zip string) bool {
	return c.ZipCode == zip || prefix3(c.ZipCode) == prefix3(zip)
}

func prefix3(s string) string {
	if r := []rune(s); len(r) > 3 {
		return string(r[:3])
	}
	return s
}

// NewRecyclingCenter holds the fields a client may set when creating a center.
type NewRecyclingCenter struct {
	Name          string   `json:"name" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	ZipCode       string   `json:"zipCode" validate:"required"`
	Phone         *string  `json:"phone"`
	Hours         string   `json:"hours" validate:"required"`
	AcceptedTypes []string `json:"acceptedTypes" validate:"required"`
	Latitude      *string  `json:"latitude"`
	Longitude     *string  `json:"longitude"`
}

// Validate checks the insertable center.
func (n NewRecyclingCenter) Validate() error {
	return check(n)
}

// Build materialises the stored record. Distance always starts unset.
func (n NewRecyclingCenter) Build(id string) RecyclingCenter {
	return RecyclingCenter{
		ID:            id,
		Name:          n.Name,
		Address:       n.Address,
		ZipCode:       n.ZipCode,
		Phone:         nonEmpty(n.Phone),
		Hours:         n.Hours,
		AcceptedTypes: slices.Clone(n.AcceptedTypes),
		Latitude:      nonEmpty(n.Latitude),
		Longitude:     nonEmpty(n.Longitude),
	}
}

// RecyclingCenterPatch lists the center fields an update may replace.
type RecyclingCenterPatch struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	Address       *string  `json:"address" validate:"omitempty,min=1"`
	ZipCode       *string  `json:"zipCode" validate:"omitempty,min=1"`
	Phone         *string  `json:"phone"`
	Hours         *string  `json:"hours" validate:"omitempty,min=1"`
	AcceptedTypes []string `json:"acceptedTypes"`
	Latitude      *string  `json:"latitude"`
	Longitude     *string  `json:"longitude"`
}

// Validate checks every supplied field.
func (p RecyclingCenterPatch) Validate() error {
	return check(p)
}

// Apply merges the supplied fields over c.
func (p RecyclingCenterPatch) Apply(c RecyclingCenter) RecyclingCenter {
	c = c.Clone()
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.ZipCode != nil {
		c.ZipCode = *p.ZipCode
	}
	if p.Phone != nil {
		c.Phone = nonEmpty(p.Phone)
	}
	if p.Hours != nil {
		c.Hours = *p.Hours
	}
	if p.AcceptedTypes != nil {
		c.AcceptedTypes = slices.Clone(p.AcceptedTypes)
	}
	if p.Latitude != nil {
		c.Latitude = nonEmpty(p.Latitude)
	}
	if p.Longitude != nil {
		c.Longitude = nonEmpty(p.Longitude)
	}
	return c
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
