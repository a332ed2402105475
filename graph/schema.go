package graph

// Schema is the GraphQL SDL served at /graphql.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

type Query {
	channel(id: ID!): Channel
	channels: [Channel!]!
	shippingZones: [ShippingZone!]!
}

type Mutation {
	channelCreate(input: ChannelCreateInput!): ChannelCreate
	channelUpdate(id: ID!, input: ChannelUpdateInput!): ChannelUpdate
}

input ChannelCreateInput {
	name: String!
	slug: String!
	currencyCode: String!
	isActive: Boolean
	addShippingZones: [ID!]
}

input ChannelUpdateInput {
	name: String
	slug: String
	addShippingZones: [ID!]
	removeShippingZones: [ID!]
}

type Channel {
	id: ID!
	name: String!
	slug: String!
	currencyCode: String!
	isActive: Boolean!
	shippingZones: [ShippingZone!]!
}

type ShippingZone {
	id: ID!
	name: String!
	countries: [String!]!
	default: Boolean!
}

enum ChannelErrorCode {
	UNIQUE
	DUPLICATED_INPUT_ITEM
	REQUIRED
	NOT_FOUND
	GRAPHQL_ERROR
	INVALID
}

type ChannelError {
	field: String
	message: String
	code: ChannelErrorCode!
	shippingZones: [ID!]
}

type ChannelCreate {
	channel: Channel
	channelErrors: [ChannelError!]!
}

type ChannelUpdate {
	channel: Channel
	channelErrors: [ChannelError!]!
}
`
