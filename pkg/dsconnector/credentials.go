// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dsconnector

// Credentials is an opaque credential object carried on Config. The
// connector never inspects its contents (§1 Non-goals: "authentication
// beyond accepting a credential object") — it exists purely so embedders
// have somewhere to put a token source or service-account handle without
// this package importing a specific auth library. Nothing in this module
// passes it on: neither the writer/planner entry points nor
// store.BuildClient take it, so the embedder hands it to whatever Store
// client it constructs.
type Credentials struct {
	raw any
}

// NewCredentials wraps an opaque credential value (for example, a
// google.golang.org/api/option.ClientOption or an oauth2.TokenSource).
func NewCredentials(v any) Credentials {
	return Credentials{raw: v}
}

// Raw returns the wrapped value, for the Store client constructor to
// type-assert into whatever concrete auth mechanism it expects.
func (c Credentials) Raw() any {
	return c.raw
}
